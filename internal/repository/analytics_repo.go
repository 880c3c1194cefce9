package repository

import (
	"context"

	"github.com/codereviewlab/backend/internal/model"
	"gorm.io/gorm"
)

type LanguageCount struct {
	Language string `gorm:"column:language"`
	Count    int64  `gorm:"column:count"`
}

type AnalyticsRepository interface {
	CountUsersByRole(ctx context.Context) (map[string]int64, error)
	CountSubmissionsByStatus(ctx context.Context) (map[string]int64, error)
	CountReviews(ctx context.Context) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
	TopLanguages(ctx context.Context, limit int) ([]LanguageCount, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

type groupCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

func (r *analyticsRepository) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("role AS key, count(*) AS count").
		Group("role").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func (r *analyticsRepository) CountSubmissionsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("status AS key, count(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func (r *analyticsRepository) CountReviews(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("coalesce(avg(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *analyticsRepository) TopLanguages(ctx context.Context, limit int) ([]LanguageCount, error) {
	var rows []LanguageCount
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("language, count(*) AS count").
		Group("language").
		Order("count DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func toMap(rows []groupCount) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		m[row.Key] = row.Count
	}
	return m
}
