package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnnotationCreate struct {
	LineNumber  int    `json:"line_number" binding:"required,min=1"`
	CommentText string `json:"comment_text" binding:"required"`
}

type CreateReviewRequest struct {
	SubmissionID   uuid.UUID          `json:"submission_id" binding:"required"`
	OverallComment string             `json:"overall_comment" binding:"required"`
	Rating         int                `json:"rating" binding:"required,min=1,max=5"`
	Annotations    []AnnotationCreate `json:"annotations" binding:"omitempty,dive"`
}

type ReviewerOut struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type AnnotationOut struct {
	ID          uuid.UUID `json:"id"`
	LineNumber  int       `json:"line_number"`
	CommentText string    `json:"comment_text"`
}

type ReviewOut struct {
	ID             uuid.UUID       `json:"id"`
	SubmissionID   uuid.UUID       `json:"submission_id"`
	Reviewer       ReviewerOut     `json:"reviewer"`
	OverallComment string          `json:"overall_comment"`
	Rating         int             `json:"rating"`
	CreatedAt      time.Time       `json:"created_at"`
	Annotations    []AnnotationOut `json:"annotations"`
}

type ReviewListResponse struct {
	SubmissionID uuid.UUID   `json:"submission_id"`
	Reviews      []ReviewOut `json:"reviews"`
}
