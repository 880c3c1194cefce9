package repository

import (
	"context"

	"github.com/codereviewlab/backend/internal/model"
	"gorm.io/gorm"
)

type TagCount struct {
	Name            string `gorm:"column:name"`
	SubmissionCount int64  `gorm:"column:submission_count"`
}

type TagRepository interface {
	ListWithCounts(ctx context.Context) ([]TagCount, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ListWithCounts(ctx context.Context) ([]TagCount, error) {
	var rows []TagCount
	err := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tags.name, count(submission_tags.submission_id) AS submission_count").
		Joins("LEFT JOIN submission_tags ON submission_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("tags.name ASC").
		Find(&rows).Error
	return rows, err
}
