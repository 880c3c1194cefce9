package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/model"
	"github.com/codereviewlab/backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLMProvider struct {
	response    string
	generateErr error
	calls       int
	lastPrompt  string
}

func (p *fakeLLMProvider) GenerateStructured(ctx context.Context, prompt string, output interface{}) error {
	p.calls++
	p.lastPrompt = prompt
	if p.generateErr != nil {
		return p.generateErr
	}
	return json.Unmarshal([]byte(p.response), output)
}

func (p *fakeLLMProvider) Close() {}

func TestAnalyzeMapsStructuredOutput(t *testing.T) {
	student := testUser(model.RoleStudent)
	sub := pendingSubmission(student)
	provider := &fakeLLMProvider{response: `{
		"summary": "Readable implementation with one boundary bug.",
		"findings": [{"line_number": 11, "severity": "error", "comment": "upper bound is exclusive"}],
		"suggestions": ["add a test for the empty slice"]
	}`}
	svc := NewAIService(newFakeSubmissionRepo(sub), newFakeUserRepo(student), provider, nil, 10)

	out, err := svc.Analyze(context.Background(), student.ID, dto.AIAnalyzeRequest{SubmissionID: sub.ID})

	require.NoError(t, err)
	assert.Equal(t, sub.ID, out.SubmissionID)
	assert.Equal(t, "Readable implementation with one boundary bug.", out.Summary)
	require.Len(t, out.Findings, 1)
	assert.Equal(t, 11, out.Findings[0].LineNumber)
	assert.Equal(t, "error", out.Findings[0].Severity)
	assert.Equal(t, []string{"add a test for the empty slice"}, out.Suggestions)

	// The prompt carries the submission itself, not just its id.
	assert.Contains(t, provider.lastPrompt, sub.CodeContent)
	assert.Contains(t, provider.lastPrompt, sub.Language)
}

func TestAnalyzeVisibility(t *testing.T) {
	author := testUser(model.RoleStudent)
	foreign := testUser(model.RoleStudent)
	mentor := testUser(model.RoleMentor)
	sub := pendingSubmission(author)
	provider := &fakeLLMProvider{response: `{"summary": "ok", "findings": [], "suggestions": []}`}
	svc := NewAIService(newFakeSubmissionRepo(sub), newFakeUserRepo(author, foreign, mentor), provider, nil, 10)

	_, err := svc.Analyze(context.Background(), author.ID, dto.AIAnalyzeRequest{SubmissionID: sub.ID})
	assert.NoError(t, err)

	_, err = svc.Analyze(context.Background(), mentor.ID, dto.AIAnalyzeRequest{SubmissionID: sub.ID})
	assert.NoError(t, err)

	_, err = svc.Analyze(context.Background(), foreign.ID, dto.AIAnalyzeRequest{SubmissionID: sub.ID})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Analyze(context.Background(), author.ID, dto.AIAnalyzeRequest{SubmissionID: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAnalyzeUnconfiguredProvider(t *testing.T) {
	student := testUser(model.RoleStudent)
	sub := pendingSubmission(student)
	svc := NewAIService(newFakeSubmissionRepo(sub), newFakeUserRepo(student), nil, nil, 10)

	_, err := svc.Analyze(context.Background(), student.ID, dto.AIAnalyzeRequest{SubmissionID: sub.ID})

	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestAnalyzeProviderFailure(t *testing.T) {
	student := testUser(model.RoleStudent)
	sub := pendingSubmission(student)
	provider := &fakeLLMProvider{generateErr: errors.New("model overloaded")}
	svc := NewAIService(newFakeSubmissionRepo(sub), newFakeUserRepo(student), provider, nil, 10)

	_, err := svc.Analyze(context.Background(), student.ID, dto.AIAnalyzeRequest{SubmissionID: sub.ID})

	assert.ErrorIs(t, err, apperror.ErrUpstream)
	assert.Equal(t, 1, provider.calls)
}

func TestQuotaWithoutRedis(t *testing.T) {
	student := testUser(model.RoleStudent)
	svc := NewAIService(newFakeSubmissionRepo(), newFakeUserRepo(student), &fakeLLMProvider{}, nil, 10)

	quota, err := svc.Quota(context.Background(), student.ID)

	require.NoError(t, err)
	assert.Equal(t, 10, quota.Limit)
	assert.Equal(t, 0, quota.Used)
	assert.Equal(t, 10, quota.Remaining)
}
