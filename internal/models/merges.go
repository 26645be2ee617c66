package models

import (
	"time"

	"bukken.rehub.jp/coredb"
)

// MergeResult is the API shape of a completed or undone merge record.
type MergeResult struct {
	MergeRecordID     string     `json:"mergeRecordId"`
	PrimaryCustomerID int64      `json:"primaryCustomerId"`
	Operator          string     `json:"operator"`
	Reason            string     `json:"reason,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
	UndoneAt          *time.Time `json:"undoneAt,omitempty"`
	UndoneBy          string     `json:"undoneBy,omitempty"`
}

func NewMergeResult(record coredb.MergeRecord) MergeResult {
	result := MergeResult{
		MergeRecordID:     record.ID,
		PrimaryCustomerID: record.PrimaryCustomerID,
		Operator:          record.Operator,
		Status:            record.Status,
		CreatedAt:         record.CreatedAt,
	}
	if record.Reason.Valid {
		result.Reason = record.Reason.String
	}
	if record.UndoneAt.Valid {
		t := record.UndoneAt.Time
		result.UndoneAt = &t
	}
	if record.UndoneBy.Valid {
		result.UndoneBy = record.UndoneBy.String
	}
	return result
}
