package service

import (
	"context"
	"errors"
	"testing"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/model"
	"github.com/codereviewlab/backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(role model.Role) *model.User {
	return &model.User{ID: uuid.New(), Name: "Test " + string(role), Email: string(role) + "@example.com", Role: role, IsActive: true}
}

func pendingSubmission(author *model.User) *model.Submission {
	return &model.Submission{
		ID:          uuid.New(),
		UserID:      author.ID,
		User:        *author,
		Title:       "Binary search",
		Description: "Off-by-one somewhere",
		CodeContent: "def search(...): ...",
		Language:    "python",
		Status:      model.StatusPending,
	}
}

func newSubmissionService(subRepo *fakeSubmissionRepo, userRepo *fakeUserRepo, video *fakeVideoService, search *fakeSearchService) SubmissionService {
	return NewSubmissionService(subRepo, userRepo, video, search, nil, 0)
}

func TestCreateSubmissionRejectsNonStudents(t *testing.T) {
	for _, role := range []model.Role{model.RoleMentor, model.RoleAdmin} {
		actor := testUser(role)
		subRepo := newFakeSubmissionRepo()
		svc := newSubmissionService(subRepo, newFakeUserRepo(actor), &fakeVideoService{}, newFakeSearchService())

		_, err := svc.Create(context.Background(), actor.ID, dto.CreateSubmissionRequest{
			Title: "t", Description: "d", CodeContent: "c", Language: "go",
		}, nil)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
		assert.Zero(t, subRepo.createCalls, "no submission row may be written for %s", role)
	}
}

func TestCreateSubmissionPersistsTagsAndIndexes(t *testing.T) {
	student := testUser(model.RoleStudent)
	subRepo := newFakeSubmissionRepo()
	search := newFakeSearchService()
	svc := newSubmissionService(subRepo, newFakeUserRepo(student), &fakeVideoService{}, search)

	detail, err := svc.Create(context.Background(), student.ID, dto.CreateSubmissionRequest{
		Title:       "Binary search",
		Description: "Off-by-one somewhere",
		CodeContent: "def search(...): ...",
		Language:    "python",
		Tags:        []string{"algorithms", "python"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "pending", detail.Status)
	assert.ElementsMatch(t, []string{"algorithms", "python"}, detail.Tags)
	assert.Equal(t, []string{"algorithms", "python"}, subRepo.createdTags)
	assert.Equal(t, 1, search.indexed[detail.ID])
}

func TestCreateSubmissionSurvivesVideoUploadFailure(t *testing.T) {
	student := testUser(model.RoleStudent)
	subRepo := newFakeSubmissionRepo()
	video := &fakeVideoService{uploadErr: errors.New("cloudinary down")}
	svc := newSubmissionService(subRepo, newFakeUserRepo(student), video, newFakeSearchService())

	detail, err := svc.Create(context.Background(), student.ID, dto.CreateSubmissionRequest{
		Title: "t", Description: "d", CodeContent: "c", Language: "go",
	}, &VideoFile{ContentType: "video/mp4", Size: 1024})

	// The submission must survive a failed walkthrough upload.
	require.NoError(t, err)
	assert.Equal(t, 1, video.uploadCalls)
	assert.Nil(t, detail.WalkthroughVideoURL)
	_, found := subRepo.subs[detail.ID]
	assert.True(t, found)
}

func TestListScopesStudentsToOwnSubmissions(t *testing.T) {
	student := testUser(model.RoleStudent)
	other := testUser(model.RoleStudent)
	subRepo := newFakeSubmissionRepo(pendingSubmission(student), pendingSubmission(other))
	svc := newSubmissionService(subRepo, newFakeUserRepo(student, other), &fakeVideoService{}, newFakeSearchService())

	resp, err := svc.List(context.Background(), student.ID, dto.SubmissionFilter{Limit: 10})

	require.NoError(t, err)
	require.NotNil(t, subRepo.lastListFilters.UserID)
	assert.Equal(t, student.ID, *subRepo.lastListFilters.UserID)
	require.Len(t, resp.Submissions, 1)
	// Students never get the author echoed back.
	assert.Nil(t, resp.Submissions[0].User)
	assert.Equal(t, int64(1), resp.Total)
}

func TestListShowsAuthorsToMentors(t *testing.T) {
	mentor := testUser(model.RoleMentor)
	student := testUser(model.RoleStudent)
	subRepo := newFakeSubmissionRepo(pendingSubmission(student))
	svc := newSubmissionService(subRepo, newFakeUserRepo(mentor, student), &fakeVideoService{}, newFakeSearchService())

	resp, err := svc.List(context.Background(), mentor.ID, dto.SubmissionFilter{Limit: 10})

	require.NoError(t, err)
	assert.Nil(t, subRepo.lastListFilters.UserID)
	require.Len(t, resp.Submissions, 1)
	require.NotNil(t, resp.Submissions[0].User)
	assert.Equal(t, student.ID, resp.Submissions[0].User.ID)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	mentor := testUser(model.RoleMentor)
	svc := newSubmissionService(newFakeSubmissionRepo(), newFakeUserRepo(mentor), &fakeVideoService{}, newFakeSearchService())

	_, err := svc.List(context.Background(), mentor.ID, dto.SubmissionFilter{Limit: 10, Status: "archived"})

	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestGetSubmissionVisibility(t *testing.T) {
	author := testUser(model.RoleStudent)
	foreign := testUser(model.RoleStudent)
	mentor := testUser(model.RoleMentor)
	sub := pendingSubmission(author)
	svc := newSubmissionService(newFakeSubmissionRepo(sub), newFakeUserRepo(author, foreign, mentor), &fakeVideoService{}, newFakeSearchService())

	_, err := svc.Get(context.Background(), author.ID, sub.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), mentor.ID, sub.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), foreign.ID, sub.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Get(context.Background(), author.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateRejectsReviewedSubmission(t *testing.T) {
	author := testUser(model.RoleStudent)
	sub := pendingSubmission(author)
	sub.Status = model.StatusReviewed
	svc := newSubmissionService(newFakeSubmissionRepo(sub), newFakeUserRepo(author), &fakeVideoService{}, newFakeSearchService())

	title := "new title"
	_, err := svc.Update(context.Background(), author.ID, sub.ID, dto.UpdateSubmissionRequest{Title: &title})

	assert.ErrorIs(t, err, apperror.ErrDomainState)
}

func TestUpdateAppliesPartialFieldsAndReindexes(t *testing.T) {
	author := testUser(model.RoleStudent)
	sub := pendingSubmission(author)
	subRepo := newFakeSubmissionRepo(sub)
	search := newFakeSearchService()
	svc := newSubmissionService(subRepo, newFakeUserRepo(author), &fakeVideoService{}, search)

	title := "fixed title"
	detail, err := svc.Update(context.Background(), author.ID, sub.ID, dto.UpdateSubmissionRequest{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "fixed title", detail.Title)
	assert.Equal(t, map[string]any{"title": "fixed title"}, subRepo.updatedFields)
	assert.Equal(t, 1, search.indexed[sub.ID])
}

func TestUpdateForbiddenForNonAuthor(t *testing.T) {
	author := testUser(model.RoleStudent)
	mentor := testUser(model.RoleMentor)
	sub := pendingSubmission(author)
	svc := newSubmissionService(newFakeSubmissionRepo(sub), newFakeUserRepo(author, mentor), &fakeVideoService{}, newFakeSearchService())

	title := "hijacked"
	_, err := svc.Update(context.Background(), mentor.ID, sub.ID, dto.UpdateSubmissionRequest{Title: &title})

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeletePendingOnly(t *testing.T) {
	author := testUser(model.RoleStudent)
	sub := pendingSubmission(author)
	reviewed := pendingSubmission(author)
	reviewed.Status = model.StatusReviewed
	subRepo := newFakeSubmissionRepo(sub, reviewed)
	search := newFakeSearchService()
	svc := newSubmissionService(subRepo, newFakeUserRepo(author), &fakeVideoService{}, search)

	require.NoError(t, svc.Delete(context.Background(), author.ID, sub.ID))
	assert.Equal(t, []string{sub.ID.String()}, search.deleted)

	err := svc.Delete(context.Background(), author.ID, reviewed.ID)
	assert.ErrorIs(t, err, apperror.ErrDomainState)
	_, found := subRepo.subs[reviewed.ID]
	assert.True(t, found, "a reviewed submission must not be deleted")
}

func TestSearchRestrictsStudents(t *testing.T) {
	student := testUser(model.RoleStudent)
	mentor := testUser(model.RoleMentor)
	search := newFakeSearchService()
	svc := newSubmissionService(newFakeSubmissionRepo(), newFakeUserRepo(student, mentor), &fakeVideoService{}, search)

	_, err := svc.Search(context.Background(), student.ID, "binary")
	require.NoError(t, err)
	require.NotNil(t, search.lastRestrict)
	assert.Equal(t, student.ID, *search.lastRestrict)

	_, err = svc.Search(context.Background(), mentor.ID, "binary")
	require.NoError(t, err)
	assert.Nil(t, search.lastRestrict)
}
