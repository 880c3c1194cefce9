package dto

type LanguageCount struct {
	Language string `json:"language"`
	Count    int64  `json:"count"`
}

type AnalyticsSummary struct {
	TotalUsers          int64            `json:"total_users"`
	UsersByRole         map[string]int64 `json:"users_by_role"`
	TotalSubmissions    int64            `json:"total_submissions"`
	SubmissionsByStatus map[string]int64 `json:"submissions_by_status"`
	TotalReviews        int64            `json:"total_reviews"`
	AverageRating       float64          `json:"average_rating"`
	TopLanguages        []LanguageCount  `json:"top_languages"`
}

type TagOut struct {
	Name            string `json:"name"`
	SubmissionCount int64  `json:"submission_count"`
}
