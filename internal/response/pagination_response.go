package response

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// NewPagination describes page (1-based) of size pageSize over total items.
// From and To are 1-based item positions, both 0 when the page is empty.
func NewPagination(page, pageSize int, total int64) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	p := &Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	offset := int64((page - 1) * pageSize)
	if offset < total {
		p.From = int(offset) + 1
		p.To = int(min(offset+int64(pageSize), total))
	}
	p.HasMore = int64(page) < p.TotalPages
	return p
}

// Offset is the number of rows to skip for this page.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
