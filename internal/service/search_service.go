package service

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/model"
	"github.com/codereviewlab/backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

const submissionIndex = "submissions"

type SearchService interface {
	IndexSubmission(sub *model.Submission) error
	DeleteSubmission(id string) error
	Search(query string, restrictToUser *uuid.UUID) ([]dto.SearchHit, error)
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	if client != nil {
		s.initIndexes()
	}
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"user_id", "language", "status"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index(submissionIndex).UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update submissions filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	_, err = s.client.Index(submissionIndex).UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update submissions sortable attributes: %v", err)
	}
}

type meiliSubmissionDoc struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Author      string   `json:"author"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CodeContent string   `json:"code_content"`
	Language    string   `json:"language"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"created_at"`
}

// IndexSubmission expects sub with User and Tags loaded.
func (s *searchService) IndexSubmission(sub *model.Submission) error {
	if s.client == nil {
		return nil
	}

	tags := make([]string, 0, len(sub.Tags))
	for _, tag := range sub.Tags {
		tags = append(tags, tag.Name)
	}

	doc := meiliSubmissionDoc{
		ID:          sub.ID.String(),
		UserID:      sub.UserID.String(),
		Author:      sub.User.Name,
		Title:       sub.Title,
		Description: sub.Description,
		CodeContent: sub.CodeContent,
		Language:    sub.Language,
		Status:      string(sub.Status),
		Tags:        tags,
		CreatedAt:   sub.CreatedAt.Unix(),
	}

	_, err := s.client.Index(submissionIndex).AddDocuments([]meiliSubmissionDoc{doc}, strPtr("id"))
	return err
}

func (s *searchService) DeleteSubmission(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(submissionIndex).DeleteDocument(id)
	return err
}

func (s *searchService) Search(query string, restrictToUser *uuid.UUID) ([]dto.SearchHit, error) {
	if s.client == nil {
		return nil, fmt.Errorf("search is not configured: %w", apperror.ErrUpstream)
	}

	req := &meilisearch.SearchRequest{Limit: 20}
	if restrictToUser != nil {
		req.Filter = fmt.Sprintf("user_id = %q", restrictToUser.String())
	}

	resp, err := s.client.Index(submissionIndex).Search(query, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %v: %w", err, apperror.ErrUpstream)
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	var docs []meiliSubmissionDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	hits := make([]dto.SearchHit, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		hits = append(hits, dto.SearchHit{
			ID:       id,
			Title:    doc.Title,
			Language: doc.Language,
			Status:   doc.Status,
			Author:   doc.Author,
		})
	}

	return hits, nil
}

func strPtr(s string) *string {
	return &s
}
