package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"submission_id"`
	Submission     *Submission `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ReviewerID     uuid.UUID `gorm:"type:uuid;not null" json:"reviewer_id"`
	Reviewer       User      `gorm:"foreignKey:ReviewerID" json:"reviewer"`
	OverallComment string    `gorm:"type:text;not null" json:"overall_comment"`
	Rating         int       `gorm:"not null" json:"rating"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Annotations []Annotation `gorm:"foreignKey:ReviewID" json:"annotations"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

type Annotation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID    uuid.UUID `gorm:"type:uuid;not null;index" json:"review_id"`
	LineNumber  int       `gorm:"not null" json:"line_number"`
	CommentText string    `gorm:"type:text;not null" json:"comment_text"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Annotation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
