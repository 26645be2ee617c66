package mergeengine

import "fmt"

// Merge validation failure reasons.
const (
	ReasonNotFound          = "not_found"
	ReasonSameEntity        = "same_entity"
	ReasonCrossTenant       = "cross_tenant"
	ReasonUncontactable     = "uncontactable"
	ReasonUniqueCollision   = "unique_collision"
	ReasonAlreadyUndone     = "already_undone"
	ReasonInvalidResolution = "invalid_resolution"
)

// MergeError is the single error kind for validation and invariant
// violations. Any MergeError guarantees no partial writes occurred.
type MergeError struct {
	Reason  string
	Message string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge error (%s): %s", e.Reason, e.Message)
}

func newMergeError(reason, format string, args ...interface{}) *MergeError {
	return &MergeError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}
