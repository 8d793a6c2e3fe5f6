package models

// ListParams carries the composable listing inputs. Page is 1-indexed;
// PageSize is clamped by the service. Sort is a field name with an optional
// leading '-' for descending.
type ListParams struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	AuthorID string `form:"author"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
}

// ListResult is a paginated listing response. Items never carry content
// payloads; only single-article fetches return full content.
type ListResult struct {
	Items      []*ArticleSummary `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
