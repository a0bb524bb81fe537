package models

import "math"

// Paging mirrors the envelope the storefront consumes: position, totals and
// first/last markers computed from the total count.
type Paging struct {
	Count      int  `json:"count"`
	PageSize   int  `json:"page_size"`
	PageNumber int  `json:"page_number"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	FirstPage  bool `json:"first_page"`
	LastPage   bool `json:"last_page"`
}

type PaginatedResponse struct {
	Data   any    `json:"data"`
	Paging Paging `json:"paging"`
}

func NewPaginatedResponse(data any, count, total, page, pageSize int) PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	return PaginatedResponse{
		Data: data,
		Paging: Paging{
			Count:      count,
			PageSize:   pageSize,
			PageNumber: page,
			TotalCount: total,
			TotalPages: totalPages,
			FirstPage:  page == 1,
			LastPage:   page >= totalPages,
		},
	}
}
