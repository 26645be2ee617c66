package mergeengine

// Per-field resolution policy. Each mergeable field has one strategy table
// entry holding its default merge behavior; the caller can override any
// field with an explicit primary/secondary choice. Adding a mergeable field
// is one new table entry.

import (
	"encoding/json"
	"time"
)

// FieldKey names a mergeable customer field.
type FieldKey string

const (
	FieldName            FieldKey = "name"
	FieldNameKana        FieldKey = "name_kana"
	FieldPhone           FieldKey = "phone"
	FieldEmail           FieldKey = "email"
	FieldLineUserID      FieldKey = "line_user_id"
	FieldStatus          FieldKey = "status"
	FieldNotes           FieldKey = "notes"
	FieldTags            FieldKey = "tags"
	FieldBudgetMin       FieldKey = "budget_min"
	FieldBudgetMax       FieldKey = "budget_max"
	FieldLastContactedAt FieldKey = "last_contacted_at"
	FieldLastEmailedAt   FieldKey = "last_emailed_at"
)

// Choice selects which side a field value comes from.
type Choice string

const (
	ChoiceDefault   Choice = ""
	ChoicePrimary   Choice = "primary"
	ChoiceSecondary Choice = "secondary"
)

// Resolutions maps fields to explicit choices. Unlisted fields use the
// field's default policy.
type Resolutions map[FieldKey]Choice

type fieldStrategy struct {
	// copyValue assigns the field from one chosen side.
	copyValue func(dst *customerFields, src customerFields)
	// defaultMerge applies the field's default policy.
	defaultMerge func(dst *customerFields, primary, secondary customerFields)
}

var fieldStrategies = map[FieldKey]fieldStrategy{
	FieldName: {
		copyValue: func(dst *customerFields, src customerFields) { dst.Name = src.Name },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.Name = nonBlank(p.Name, s.Name)
		},
	},
	FieldNameKana: {
		copyValue: func(dst *customerFields, src customerFields) { dst.NameKana = src.NameKana },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.NameKana = nonBlank(p.NameKana, s.NameKana)
		},
	},
	FieldPhone: {
		copyValue: func(dst *customerFields, src customerFields) { dst.Phone = src.Phone },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.Phone = nonBlank(p.Phone, s.Phone)
		},
	},
	FieldEmail: {
		copyValue: func(dst *customerFields, src customerFields) { dst.Email = src.Email },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.Email = nonBlank(p.Email, s.Email)
		},
	},
	FieldLineUserID: {
		copyValue: func(dst *customerFields, src customerFields) { dst.LineUserID = src.LineUserID },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.LineUserID = nonBlank(p.LineUserID, s.LineUserID)
		},
	},
	FieldStatus: {
		copyValue: func(dst *customerFields, src customerFields) { dst.Status = src.Status },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.Status = mergeStatus(p.Status, s.Status)
		},
	},
	FieldNotes: {
		copyValue: func(dst *customerFields, src customerFields) { dst.Notes = src.Notes },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.Notes = concatNotes(p.Notes, s.Notes)
		},
	},
	FieldTags: {
		copyValue: func(dst *customerFields, src customerFields) { dst.Tags = src.Tags },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.Tags = unionTags(p.Tags, s.Tags)
		},
	},
	FieldBudgetMin: {
		copyValue: func(dst *customerFields, src customerFields) { dst.BudgetMin = src.BudgetMin },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.BudgetMin = nonNilInt(p.BudgetMin, s.BudgetMin)
		},
	},
	FieldBudgetMax: {
		copyValue: func(dst *customerFields, src customerFields) { dst.BudgetMax = src.BudgetMax },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.BudgetMax = nonNilInt(p.BudgetMax, s.BudgetMax)
		},
	},
	FieldLastContactedAt: {
		copyValue: func(dst *customerFields, src customerFields) { dst.LastContactedAt = src.LastContactedAt },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.LastContactedAt = maxTime(p.LastContactedAt, s.LastContactedAt)
		},
	},
	FieldLastEmailedAt: {
		copyValue: func(dst *customerFields, src customerFields) { dst.LastEmailedAt = src.LastEmailedAt },
		defaultMerge: func(dst *customerFields, p, s customerFields) {
			dst.LastEmailedAt = maxTime(p.LastEmailedAt, s.LastEmailedAt)
		},
	},
}

// resolveFields computes the merged field set for the primary. Unknown field
// keys in the resolutions are a validation failure.
func resolveFields(primary, secondary customerFields, resolutions Resolutions) (customerFields, error) {
	for key := range resolutions {
		if _, ok := fieldStrategies[key]; !ok {
			return customerFields{}, newMergeError(ReasonInvalidResolution,
				"unknown field %q in resolutions", key)
		}
	}

	merged := customerFields{}
	for key, strategy := range fieldStrategies {
		switch resolutions[key] {
		case ChoicePrimary:
			strategy.copyValue(&merged, primary)
		case ChoiceSecondary:
			strategy.copyValue(&merged, secondary)
		default:
			strategy.defaultMerge(&merged, primary, secondary)
		}
	}
	return merged, nil
}

// resolutionStrings flattens the resolutions for snapshot storage.
func resolutionStrings(resolutions Resolutions) map[string]string {
	out := make(map[string]string, len(resolutions))
	for key, choice := range resolutions {
		out[string(key)] = string(choice)
	}
	return out
}

const notesSeparator = "\n---\n"

func nonBlank(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	return secondary
}

func nonNilInt(primary, secondary *int64) *int64 {
	if primary != nil {
		return primary
	}
	return secondary
}

func maxTime(primary, secondary *time.Time) *time.Time {
	if primary == nil {
		return secondary
	}
	if secondary == nil {
		return primary
	}
	if secondary.After(*primary) {
		return secondary
	}
	return primary
}

func mergeStatus(primary, secondary string) string {
	if primary == "active" || secondary == "active" {
		return "active"
	}
	return nonBlank(primary, secondary)
}

// concatNotes preserves both histories instead of choosing a side.
func concatNotes(primary, secondary string) string {
	if primary == "" {
		return secondary
	}
	if secondary == "" {
		return primary
	}
	return primary + notesSeparator + secondary
}

// unionTags merges two JSON string arrays, primary's entries first,
// dropping duplicates. Unparseable input is treated as empty.
func unionTags(primary, secondary string) string {
	seen := make(map[string]struct{})
	var union []string

	for _, raw := range []string{primary, secondary} {
		if raw == "" {
			continue
		}
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			continue
		}
		for _, tag := range tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			union = append(union, tag)
		}
	}

	if len(union) == 0 {
		return ""
	}
	encoded, err := json.Marshal(union)
	if err != nil {
		return ""
	}
	return string(encoded)
}
