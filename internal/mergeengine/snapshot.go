package mergeengine

// The undo snapshot is stored as an opaque gzip-compressed JSON document on
// the merge record. Keeping it a blob decouples the audit record's shape
// from the live customer schema; the schema_version field lets future code
// parse old snapshots without guessing.

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"bukken.rehub.jp/coredb"
)

const snapshotSchemaVersion = 1

// customerFields captures a customer's mergeable field values.
type customerFields struct {
	Name            string     `json:"name"`
	NameKana        string     `json:"name_kana,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	LineUserID      string     `json:"line_user_id,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	Tags            string     `json:"tags,omitempty"`
	BudgetMin       *int64     `json:"budget_min,omitempty"`
	BudgetMax       *int64     `json:"budget_max,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	LastEmailedAt   *time.Time `json:"last_emailed_at,omitempty"`
}

// customerRow captures a customer's entire attribute set, id included, so
// the row can be reconstructed verbatim on undo.
type customerRow struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	customerFields
}

// mergeSnapshot is the full undo unit stored on a merge record.
type mergeSnapshot struct {
	SchemaVersion int                `json:"schema_version"`
	PrimaryFields customerFields     `json:"primary_fields"`
	Secondary     customerRow        `json:"secondary"`
	Dependents    map[string][]int64 `json:"dependents"`
	Resolutions   map[string]string  `json:"resolutions"`
}

func fieldsFromCustomer(c coredb.Customer) customerFields {
	return customerFields{
		Name:            c.Name,
		NameKana:        c.NameKana.String,
		Phone:           c.Phone.String,
		Email:           c.Email.String,
		LineUserID:      c.LineUserID.String,
		Status:          c.Status,
		Notes:           c.Notes.String,
		Tags:            c.Tags.String,
		BudgetMin:       nullInt64Ptr(c.BudgetMin),
		BudgetMax:       nullInt64Ptr(c.BudgetMax),
		LastContactedAt: nullTimePtr(c.LastContactedAt),
		LastEmailedAt:   nullTimePtr(c.LastEmailedAt),
	}
}

func rowFromCustomer(c coredb.Customer) customerRow {
	return customerRow{
		ID:             c.ID,
		TenantID:       c.TenantID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		customerFields: fieldsFromCustomer(c),
	}
}

func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func toNullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p, Valid: true}
}

func encodeSnapshot(snap mergeSnapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compressing snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(data []byte) (mergeSnapshot, error) {
	var snap mergeSnapshot

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return snap, fmt.Errorf("decompressing snapshot: %w", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return snap, fmt.Errorf("decompressing snapshot: %w", err)
	}
	if err := zr.Close(); err != nil {
		return snap, fmt.Errorf("decompressing snapshot: %w", err)
	}

	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	if snap.SchemaVersion != snapshotSchemaVersion {
		return snap, fmt.Errorf("unsupported snapshot schema version %d", snap.SchemaVersion)
	}
	return snap, nil
}
