package service

import (
	"context"
	"io"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/model"
	"github.com/codereviewlab/backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes for the repository and provider interfaces. Mutexes are
// omitted on purpose: each test drives a fake from a single goroutine.

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.ID.String()] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSubmissionRepo struct {
	subs map[uuid.UUID]*model.Submission

	createErr   error
	createCalls int
	createdTags []string

	lastListFilters repository.SubmissionFilters
	lastListSkip    int
	lastListLimit   int

	updatedFields map[string]any
	videoURLSet   bool
	lastVideoURL  *string
}

func newFakeSubmissionRepo(subs ...*model.Submission) *fakeSubmissionRepo {
	r := &fakeSubmissionRepo{subs: map[uuid.UUID]*model.Submission{}}
	for _, s := range subs {
		r.subs[s.ID] = s
	}
	return r
}

func (r *fakeSubmissionRepo) CreateWithTags(ctx context.Context, sub *model.Submission, tags []string) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	r.createdTags = tags
	for _, name := range tags {
		sub.Tags = append(sub.Tags, model.Tag{ID: uuid.New(), Name: name})
	}
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeSubmissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	if s, ok := r.subs[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSubmissionRepo) List(ctx context.Context, f repository.SubmissionFilters, skip, limit int) ([]repository.SubmissionListRow, int64, error) {
	r.lastListFilters = f
	r.lastListSkip = skip
	r.lastListLimit = limit

	var rows []repository.SubmissionListRow
	for _, s := range r.subs {
		if f.UserID != nil && s.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.Language != "" && s.Language != f.Language {
			continue
		}
		rows = append(rows, repository.SubmissionListRow{
			Submission:  *s,
			ReviewCount: int64(len(s.Reviews)),
			AuthorName:  s.User.Name,
		})
	}
	return rows, int64(len(rows)), nil
}

func (r *fakeSubmissionRepo) UpdatePending(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	s, ok := r.subs[id]
	if !ok || s.Status != model.StatusPending {
		return false, nil
	}
	r.updatedFields = fields
	if title, ok := fields["title"].(string); ok {
		s.Title = title
	}
	if desc, ok := fields["description"].(string); ok {
		s.Description = desc
	}
	if code, ok := fields["code_content"].(string); ok {
		s.CodeContent = code
	}
	return true, nil
}

func (r *fakeSubmissionRepo) DeletePending(ctx context.Context, id uuid.UUID) (bool, error) {
	s, ok := r.subs[id]
	if !ok || s.Status != model.StatusPending {
		return false, nil
	}
	delete(r.subs, id)
	return true, nil
}

func (r *fakeSubmissionRepo) SetVideoURL(ctx context.Context, id uuid.UUID, url *string) error {
	s, ok := r.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.videoURLSet = true
	r.lastVideoURL = url
	s.WalkthroughVideoURL = url
	return nil
}

type fakeReviewRepo struct {
	subs *fakeSubmissionRepo

	createErr   error
	createCalls int
	created     *model.Review
	annotations []model.Annotation
	reviews     map[uuid.UUID][]model.Review
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *model.Review, annotations []model.Annotation) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	review.ID = uuid.New()
	for i := range annotations {
		annotations[i].ID = uuid.New()
		annotations[i].ReviewID = review.ID
	}
	review.Annotations = annotations
	r.created = review
	r.annotations = annotations
	// Mirror the real repository: the status flip lands with the review.
	if r.subs != nil {
		if sub, ok := r.subs.subs[review.SubmissionID]; ok {
			sub.Status = model.StatusReviewed
		}
	}
	return nil
}

func (r *fakeReviewRepo) FindBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.Review, error) {
	return r.reviews[submissionID], nil
}

type fakeSearchService struct {
	indexed      map[uuid.UUID]int
	deleted      []string
	hits         []dto.SearchHit
	lastQuery    string
	lastRestrict *uuid.UUID
}

func newFakeSearchService() *fakeSearchService {
	return &fakeSearchService{indexed: map[uuid.UUID]int{}}
}

func (s *fakeSearchService) IndexSubmission(sub *model.Submission) error {
	s.indexed[sub.ID]++
	return nil
}

func (s *fakeSearchService) DeleteSubmission(id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeSearchService) Search(query string, restrictToUser *uuid.UUID) ([]dto.SearchHit, error) {
	s.lastQuery = query
	s.lastRestrict = restrictToUser
	return s.hits, nil
}

type fakeNotificationService struct {
	createErr error
	created   []*model.Notification
}

func (s *fakeNotificationService) CreateNotification(ctx context.Context, n *model.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, n)
	return nil
}

func (s *fakeNotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}

func (s *fakeNotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return nil
}

func (s *fakeNotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (s *fakeNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeVideoService struct {
	uploadErr   error
	uploadCalls int
	lastSubID   uuid.UUID
	url         string
}

func (s *fakeVideoService) Upload(ctx context.Context, userID, submissionID uuid.UUID, file *VideoFile) (string, error) {
	s.uploadCalls++
	s.lastSubID = submissionID
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return s.url, nil
}

func (s *fakeVideoService) Delete(ctx context.Context, userID, submissionID uuid.UUID) error {
	return nil
}

type fakeVideoStorage struct {
	uploadErr error
	deleteErr error
	uploaded  []string
	deleted   []string
	url       string
}

func (s *fakeVideoStorage) UploadVideo(ctx context.Context, r io.Reader, publicID string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploaded = append(s.uploaded, publicID)
	return s.url, nil
}

func (s *fakeVideoStorage) DeleteVideo(ctx context.Context, publicID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}
