package repository

import (
	"context"

	"github.com/codereviewlab/backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	// Create persists the review, its annotations and the submission status
	// flip to reviewed as one failure-atomic unit: a failed annotation insert
	// leaves no review row and an unflipped submission.
	Create(ctx context.Context, review *model.Review, annotations []model.Annotation) error
	FindBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review, annotations []model.Annotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		if len(annotations) > 0 {
			for i := range annotations {
				annotations[i].ReviewID = review.ID
			}
			if err := tx.Create(&annotations).Error; err != nil {
				return err
			}
			review.Annotations = annotations
		}

		return tx.Model(&model.Submission{}).
			Where("id = ?", review.SubmissionID).
			Update("status", model.StatusReviewed).Error
	})
}

func (r *reviewRepository) FindBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Preload("Annotations").
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}
