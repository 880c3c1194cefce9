package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/codereviewlab/backend/internal/policy"
	"github.com/codereviewlab/backend/internal/repository"
	"github.com/codereviewlab/backend/pkg/apperror"
	"github.com/codereviewlab/backend/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxVideoSize = 100 << 20 // 100 MiB

var allowedVideoTypes = map[string]bool{
	"video/webm":       true,
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/x-matroska": true,
}

// VideoFile is an uploaded walkthrough video as received from the client.
type VideoFile struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

type VideoService interface {
	// Upload validates and stores a walkthrough video for the caller's own
	// submission, returning the durable URL. Upstream failures propagate.
	Upload(ctx context.Context, userID, submissionID uuid.UUID, file *VideoFile) (string, error)
	// Delete removes the remote asset and clears the submission's video URL.
	Delete(ctx context.Context, userID, submissionID uuid.UUID) error
}

type videoService struct {
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	videoStorage   storage.VideoStorage
}

func NewVideoService(submissionRepo repository.SubmissionRepository, userRepo repository.UserRepository, videoStorage storage.VideoStorage) VideoService {
	return &videoService{
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		videoStorage:   videoStorage,
	}
}

// VideoPublicID derives the storage identifier for a submission's walkthrough
// video. It is deterministic so a re-upload overwrites the prior asset.
func VideoPublicID(submissionID, userID uuid.UUID) string {
	return fmt.Sprintf("submission_%s_user_%s", submissionID, userID)
}

// ValidateVideo rejects non-video MIME types and oversized files.
func ValidateVideo(file *VideoFile) error {
	if file == nil || file.Reader == nil {
		return fmt.Errorf("no video file provided: %w", apperror.ErrInvalidInput)
	}
	if !allowedVideoTypes[file.ContentType] {
		return fmt.Errorf("invalid file type %s, allowed: webm, mp4, quicktime, matroska: %w",
			file.ContentType, apperror.ErrInvalidInput)
	}
	if file.Size > maxVideoSize {
		return fmt.Errorf("file too large, maximum size is 100MB: %w", apperror.ErrInvalidInput)
	}
	return nil
}

func (s *videoService) Upload(ctx context.Context, userID, submissionID uuid.UUID, file *VideoFile) (string, error) {
	sub, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return "", err
	}

	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return "", apperror.ErrUnauthorized
	}

	if err := policy.CanManageVideo(actor, sub); err != nil {
		return "", err
	}

	if err := ValidateVideo(file); err != nil {
		return "", err
	}

	if s.videoStorage == nil {
		return "", fmt.Errorf("video storage is not configured: %w", apperror.ErrUpstream)
	}

	// The upload happens outside any store transaction: it can take a while
	// and must not hold row locks.
	url, err := s.videoStorage.UploadVideo(ctx, file.Reader, VideoPublicID(submissionID, userID))
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %v: %w", err, apperror.ErrUpstream)
	}

	if err := s.submissionRepo.SetVideoURL(ctx, submissionID, &url); err != nil {
		return "", err
	}

	return url, nil
}

func (s *videoService) Delete(ctx context.Context, userID, submissionID uuid.UUID) error {
	sub, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return apperror.ErrUnauthorized
	}

	if err := policy.CanManageVideo(actor, sub); err != nil {
		return err
	}

	if sub.WalkthroughVideoURL == nil {
		return fmt.Errorf("no video found for this submission: %w", apperror.ErrNotFound)
	}

	if s.videoStorage == nil {
		return fmt.Errorf("video storage is not configured: %w", apperror.ErrUpstream)
	}

	if err := s.videoStorage.DeleteVideo(ctx, VideoPublicID(submissionID, userID)); err != nil {
		return fmt.Errorf("failed to delete video: %v: %w", err, apperror.ErrUpstream)
	}

	return s.submissionRepo.SetVideoURL(ctx, submissionID, nil)
}
