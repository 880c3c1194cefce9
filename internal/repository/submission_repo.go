package repository

import (
	"context"
	"errors"

	"github.com/codereviewlab/backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errNotPending aborts a transaction when the compare-and-swap on
// status = 'pending' matched no row.
var errNotPending = errors.New("submission is not pending")

// SubmissionListRow is one row of the list view: the submission joined with
// its review count and the author's display name.
type SubmissionListRow struct {
	model.Submission
	ReviewCount int64  `gorm:"column:review_count"`
	AuthorName  string `gorm:"column:author_name"`
}

type SubmissionFilters struct {
	UserID   *uuid.UUID
	Status   model.SubmissionStatus
	Language string
}

type SubmissionRepository interface {
	// CreateWithTags persists the submission, its tags (create-if-absent by
	// name) and the join links in a single transaction.
	CreateWithTags(ctx context.Context, sub *model.Submission, tags []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	List(ctx context.Context, f SubmissionFilters, skip, limit int) ([]SubmissionListRow, int64, error)
	// UpdatePending applies fields only while status is still pending and
	// reports whether a row was hit, so concurrent reviews cannot race the
	// precondition check.
	UpdatePending(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error)
	DeletePending(ctx context.Context, id uuid.UUID) (bool, error)
	SetVideoURL(ctx context.Context, id uuid.UUID, url *string) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateWithTags(ctx context.Context, sub *model.Submission, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}

		for _, name := range tags {
			var tag model.Tag
			if err := tx.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			if err := tx.Model(sub).Association("Tags").Append(&tag); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *submissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	var sub model.Submission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		Preload("Reviews.Reviewer").
		Preload("Reviews.Annotations").
		Where("id = ?", id).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) applyFilters(q *gorm.DB, f SubmissionFilters) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("submissions.user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("submissions.status = ?", f.Status)
	}
	if f.Language != "" {
		q = q.Where("submissions.language = ?", f.Language)
	}
	return q
}

func (r *submissionRepository) List(ctx context.Context, f SubmissionFilters, skip, limit int) ([]SubmissionListRow, int64, error) {
	var total int64
	countQ := r.applyFilters(r.db.WithContext(ctx).Model(&model.Submission{}), f)
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []SubmissionListRow
	listQ := r.applyFilters(r.db.WithContext(ctx).Model(&model.Submission{}), f).
		Select("submissions.*, count(reviews.id) AS review_count, users.name AS author_name").
		Joins("LEFT JOIN reviews ON reviews.submission_id = submissions.id").
		Joins("JOIN users ON users.id = submissions.user_id").
		Group("submissions.id, users.name").
		Order("submissions.created_at DESC").
		Offset(skip).
		Limit(limit)

	if err := listQ.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *submissionRepository) UpdatePending(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *submissionRepository) DeletePending(ctx context.Context, id uuid.UUID) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM submission_tags WHERE submission_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND status = ?", id, model.StatusPending).
			Delete(&model.Submission{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotPending
		}
		return nil
	})
	if errors.Is(err, errNotPending) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *submissionRepository) SetVideoURL(ctx context.Context, id uuid.UUID, url *string) error {
	return r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("id = ?", id).
		Update("walkthrough_video_url", url).Error
}
