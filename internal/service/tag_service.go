package service

import (
	"context"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/repository"
)

type TagService interface {
	List(ctx context.Context) ([]dto.TagOut, error)
}

type tagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) List(ctx context.Context) ([]dto.TagOut, error) {
	rows, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TagOut, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TagOut{
			Name:            row.Name,
			SubmissionCount: row.SubmissionCount,
		})
	}
	return out, nil
}
