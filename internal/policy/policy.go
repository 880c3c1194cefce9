// Package policy centralizes the authorization rules and the submission
// status machine. Everything here is a pure function over models so the
// rules can be tested without the router or the database.
package policy

import (
	"github.com/codereviewlab/backend/internal/model"
	"github.com/codereviewlab/backend/pkg/apperror"
)

// CanCreateSubmission allows only students to submit code.
func CanCreateSubmission(role model.Role) error {
	if role != model.RoleStudent {
		return apperror.ErrForbidden
	}
	return nil
}

// CanViewSubmission hides other students' submissions; mentors and admins see all.
func CanViewSubmission(actor *model.User, sub *model.Submission) error {
	if actor.Role == model.RoleStudent && sub.UserID != actor.ID {
		return apperror.ErrForbidden
	}
	return nil
}

// CanMutateSubmission checks ownership only. Whether the submission is still
// in a mutable state is a lifecycle question, not an authorization one.
func CanMutateSubmission(actor *model.User, sub *model.Submission) error {
	if sub.UserID != actor.ID {
		return apperror.ErrForbidden
	}
	return nil
}

// CanReview allows only mentors to record reviews.
func CanReview(role model.Role) error {
	if role != model.RoleMentor {
		return apperror.ErrForbidden
	}
	return nil
}

// CanViewReviews lets a student read reviews only on their own submission.
func CanViewReviews(actor *model.User, sub *model.Submission) error {
	if actor.Role == model.RoleStudent && sub.UserID != actor.ID {
		return apperror.ErrForbidden
	}
	return nil
}

// CanManageVideo restricts walkthrough-video upload/delete to the authoring user.
func CanManageVideo(actor *model.User, sub *model.Submission) error {
	if sub.UserID != actor.ID {
		return apperror.ErrForbidden
	}
	return nil
}

// CanViewAnalytics restricts the analytics summary to mentors and admins.
func CanViewAnalytics(role model.Role) error {
	if role != model.RoleMentor && role != model.RoleAdmin {
		return apperror.ErrForbidden
	}
	return nil
}
