package policy

import (
	"github.com/codereviewlab/backend/internal/model"
	"github.com/codereviewlab/backend/pkg/apperror"
)

// CanEdit reports whether a submission may still be updated or deleted.
// Only pending submissions are mutable.
func CanEdit(status model.SubmissionStatus) bool {
	return status == model.StatusPending
}

// EnsureEditable returns a domain-state error for non-pending submissions.
func EnsureEditable(status model.SubmissionStatus) error {
	if !CanEdit(status) {
		return apperror.ErrDomainState
	}
	return nil
}

// ValidStatus reports whether s names a known submission status. Used to
// reject bogus list filters before they reach the store.
func ValidStatus(s model.SubmissionStatus) bool {
	switch s {
	case model.StatusPending, model.StatusInReview, model.StatusReviewed:
		return true
	}
	return false
}
