package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusInReview SubmissionStatus = "in_review"
	StatusReviewed SubmissionStatus = "reviewed"
)

type Submission struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User                User             `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	Title               string           `gorm:"size:255;not null" json:"title"`
	Description         string           `gorm:"type:text;not null" json:"description"`
	CodeContent         string           `gorm:"type:text;not null" json:"code_content"`
	Language            string           `gorm:"size:50;not null" json:"language"`
	Status              SubmissionStatus `gorm:"size:20;not null;default:pending" json:"status"`
	WalkthroughVideoURL *string          `gorm:"type:text" json:"walkthrough_video_url,omitempty"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Tags    []Tag    `gorm:"many2many:submission_tags" json:"tags,omitempty"`
	Reviews []Review `gorm:"foreignKey:SubmissionID" json:"reviews,omitempty"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Submissions []Submission `gorm:"many2many:submission_tags" json:"-"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
