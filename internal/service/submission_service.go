package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/model"
	"github.com/codereviewlab/backend/internal/policy"
	"github.com/codereviewlab/backend/internal/repository"
	"github.com/codereviewlab/backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type SubmissionService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateSubmissionRequest, video *VideoFile) (*dto.SubmissionDetail, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.SubmissionFilter) (*dto.SubmissionListResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.SubmissionDetail, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateSubmissionRequest) (*dto.SubmissionDetail, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, query string) ([]dto.SearchHit, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	videoService   VideoService
	searchService  SearchService
	redisClient    *redis.Client
	rateLimit      time.Duration
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	videoService VideoService,
	searchService SearchService,
	redisClient *redis.Client,
	rateLimit time.Duration,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		videoService:   videoService,
		searchService:  searchService,
		redisClient:    redisClient,
		rateLimit:      rateLimit,
	}
}

func (s *submissionService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateSubmissionRequest, video *VideoFile) (*dto.SubmissionDetail, error) {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if err := policy.CanCreateSubmission(actor.Role); err != nil {
		return nil, fmt.Errorf("only students can create submissions: %w", err)
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "create_submission", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "create_submission")
		return nil, fmt.Errorf("please wait %s before submitting again: %w", ttl.Round(time.Second), apperror.ErrRateLimitExceeded)
	}

	sub := &model.Submission{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CodeContent: req.CodeContent,
		Language:    req.Language,
		Status:      model.StatusPending,
	}

	if err := s.submissionRepo.CreateWithTags(ctx, sub, req.Tags); err != nil {
		// Release the lock so a transient store failure doesn't also cost
		// the user their rate-limit window.
		_ = ClearRateLimit(ctx, s.redisClient, userID, "create_submission")
		return nil, err
	}

	// An optional walkthrough video is best-effort here: the submission is
	// already durable and a failed upload must not undo it. The dedicated
	// upload endpoint is the strict path.
	if video != nil {
		if _, err := s.videoService.Upload(ctx, userID, sub.ID, video); err != nil {
			log.Printf("walkthrough video upload failed for submission %s: %v", sub.ID, err)
		}
	}

	created, err := s.submissionRepo.FindByID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	if err := s.searchService.IndexSubmission(created); err != nil {
		log.Printf("failed to index submission %s: %v", created.ID, err)
	}

	detail := toSubmissionDetail(created)
	return &detail, nil
}

func (s *submissionService) List(ctx context.Context, userID uuid.UUID, filter dto.SubmissionFilter) (*dto.SubmissionListResponse, error) {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if filter.Status != "" && !policy.ValidStatus(model.SubmissionStatus(filter.Status)) {
		return nil, fmt.Errorf("unknown status %q: %w", filter.Status, apperror.ErrInvalidInput)
	}

	filters := repository.SubmissionFilters{
		Status:   model.SubmissionStatus(filter.Status),
		Language: filter.Language,
	}
	if actor.Role == model.RoleStudent {
		filters.UserID = &actor.ID
	}

	rows, total, err := s.submissionRepo.List(ctx, filters, filter.Skip, filter.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubmissionListItem, 0, len(rows))
	for _, row := range rows {
		item := dto.SubmissionListItem{
			ID:          row.ID,
			Title:       row.Title,
			Language:    row.Language,
			Status:      string(row.Status),
			ReviewCount: row.ReviewCount,
			CreatedAt:   row.CreatedAt,
		}
		// Students only ever see their own rows; echoing the author back
		// to them would be noise.
		if actor.Role != model.RoleStudent {
			item.User = &dto.AuthorOut{ID: row.UserID, Name: row.AuthorName}
		}
		items = append(items, item)
	}

	return &dto.SubmissionListResponse{
		Submissions: items,
		ListMeta:    dto.NewListMeta(total, filter.Skip, filter.Limit, len(items)),
	}, nil
}

func (s *submissionService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.SubmissionDetail, error) {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	sub, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := policy.CanViewSubmission(actor, sub); err != nil {
		return nil, err
	}

	detail := toSubmissionDetail(sub)
	return &detail, nil
}

func (s *submissionService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateSubmissionRequest) (*dto.SubmissionDetail, error) {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	sub, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := policy.CanMutateSubmission(actor, sub); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.CodeContent != nil {
		fields["code_content"] = *req.CodeContent
	}

	if len(fields) == 0 {
		if err := policy.EnsureEditable(sub.Status); err != nil {
			return nil, fmt.Errorf("only pending submissions can be updated: %w", err)
		}
		detail := toSubmissionDetail(sub)
		return &detail, nil
	}

	// The pending precondition is enforced in the UPDATE itself, not by the
	// read above, so two concurrent mutations cannot both pass the check.
	ok, err := s.submissionRepo.UpdatePending(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("only pending submissions can be updated: %w", apperror.ErrDomainState)
	}

	updated, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.searchService.IndexSubmission(updated); err != nil {
		log.Printf("failed to re-index submission %s: %v", updated.ID, err)
	}

	detail := toSubmissionDetail(updated)
	return &detail, nil
}

func (s *submissionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return apperror.ErrUnauthorized
	}

	sub, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if err := policy.CanMutateSubmission(actor, sub); err != nil {
		return err
	}

	ok, err := s.submissionRepo.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("only pending submissions can be deleted: %w", apperror.ErrDomainState)
	}

	if err := s.searchService.DeleteSubmission(id.String()); err != nil {
		log.Printf("failed to remove submission %s from index: %v", id, err)
	}

	return nil
}

func (s *submissionService) Search(ctx context.Context, userID uuid.UUID, query string) ([]dto.SearchHit, error) {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	var restrict *uuid.UUID
	if actor.Role == model.RoleStudent {
		restrict = &actor.ID
	}

	return s.searchService.Search(query, restrict)
}

func toSubmissionDetail(sub *model.Submission) dto.SubmissionDetail {
	tags := make([]string, 0, len(sub.Tags))
	for _, tag := range sub.Tags {
		tags = append(tags, tag.Name)
	}

	reviews := make([]dto.ReviewOut, 0, len(sub.Reviews))
	for i := range sub.Reviews {
		reviews = append(reviews, toReviewOut(&sub.Reviews[i]))
	}

	return dto.SubmissionDetail{
		ID: sub.ID,
		User: dto.SubmissionAuthorOut{
			ID:    sub.User.ID,
			Name:  sub.User.Name,
			Email: sub.User.Email,
		},
		Title:               sub.Title,
		Description:         sub.Description,
		CodeContent:         sub.CodeContent,
		Language:            sub.Language,
		Status:              string(sub.Status),
		Tags:                tags,
		WalkthroughVideoURL: sub.WalkthroughVideoURL,
		CreatedAt:           sub.CreatedAt,
		UpdatedAt:           sub.UpdatedAt,
		Reviews:             reviews,
	}
}
