package dto

import "strconv"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page carries normalized pagination values parsed from query parameters.
type Page struct {
	Number int
	Size   int
}

// Offset converts the page to a row offset.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage normalizes raw page/page_size query values. Invalid or missing
// values fall back to defaults; page_size is clamped to 100, never rejected.
func ParsePage(pageRaw, sizeRaw string) Page {
	page := Page{Number: 1, Size: defaultPageSize}
	if n, err := strconv.Atoi(pageRaw); err == nil && n > 0 {
		page.Number = n
	}
	if n, err := strconv.Atoi(sizeRaw); err == nil && n > 0 {
		page.Size = n
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}
	return page
}

// PageMeta is the meta block attached to paginated list responses.
type PageMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageMeta builds list metadata.
func NewPageMeta(page Page, total int) PageMeta {
	return PageMeta{Page: page.Number, PageSize: page.Size, Total: total}
}
