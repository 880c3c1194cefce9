package dto

import "github.com/google/uuid"

type AIAnalyzeRequest struct {
	SubmissionID uuid.UUID `json:"submission_id" binding:"required"`
}

type AIFinding struct {
	LineNumber int    `json:"line_number"`
	Severity   string `json:"severity"`
	Comment    string `json:"comment"`
}

type AIAnalysisOut struct {
	SubmissionID uuid.UUID   `json:"submission_id"`
	Summary      string      `json:"summary"`
	Findings     []AIFinding `json:"findings"`
	Suggestions  []string    `json:"suggestions"`
}

type AIQuotaOut struct {
	Limit     int `json:"limit"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}
