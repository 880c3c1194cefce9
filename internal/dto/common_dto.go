package dto

// ListMeta is the pagination envelope shared by list endpoints.
type ListMeta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	Showing int   `json:"showing"`
}

// NewListMeta derives page numbers from skip/limit offsets.
// page is the 1-based page the skip offset falls into; pages rounds up.
func NewListMeta(total int64, skip, limit, showing int) ListMeta {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}

	return ListMeta{
		Total:   total,
		Page:    skip/limit + 1,
		Pages:   pages,
		Showing: showing,
	}
}
