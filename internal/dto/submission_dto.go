package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSubmissionRequest struct {
	Title       string   `json:"title" form:"title" binding:"required,max=255"`
	Description string   `json:"description" form:"description" binding:"required"`
	CodeContent string   `json:"code_content" form:"code_content" binding:"required"`
	Language    string   `json:"language" form:"language" binding:"required,max=50"`
	Tags        []string `json:"tags" form:"tags"`
}

type UpdateSubmissionRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	CodeContent *string `json:"code_content"`
}

type SubmissionFilter struct {
	Skip     int    `form:"skip" binding:"omitempty,min=0"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"`
	Language string `form:"language"`
}

type AuthorOut struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SubmissionListItem omits the author for students: the list is already
// scoped to their own submissions.
type SubmissionListItem struct {
	ID          uuid.UUID  `json:"id"`
	User        *AuthorOut `json:"user,omitempty"`
	Title       string     `json:"title"`
	Language    string     `json:"language"`
	Status      string     `json:"status"`
	ReviewCount int64      `json:"review_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SubmissionListResponse struct {
	Submissions []SubmissionListItem `json:"submissions"`
	ListMeta
}

type SubmissionAuthorOut struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type SubmissionDetail struct {
	ID                  uuid.UUID           `json:"id"`
	User                SubmissionAuthorOut `json:"user"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	CodeContent         string              `json:"code_content"`
	Language            string              `json:"language"`
	Status              string              `json:"status"`
	Tags                []string            `json:"tags"`
	WalkthroughVideoURL *string             `json:"walkthrough_video_url,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	Reviews             []ReviewOut         `json:"reviews"`
}

type SearchHit struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Language string    `json:"language"`
	Status   string    `json:"status"`
	Author   string    `json:"author"`
}
