package dtos

import (
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
)

type HealthCheckResponse struct {
	Status string `json:"status"`
}

type PageInfo struct {
	HasNextPage     bool    `json:"has_next_page"`
	HasPreviousPage bool    `json:"has_previous_page"`
	StartCursor     *string `json:"start_cursor"`
	EndCursor       *string `json:"end_cursor"`
}

// Connection is the wire shape of a paginated list.
type Connection[T any] struct {
	Nodes    []T      `json:"nodes"`
	PageInfo PageInfo `json:"page_info"`
}

func NewConnection[M, T any](p *pagination.Page[M], convert func(M) T) Connection[T] {
	mapped := pagination.Map(p, convert)
	return Connection[T]{
		Nodes: mapped.Values,
		PageInfo: PageInfo{
			HasNextPage:     mapped.HasNextPage,
			HasPreviousPage: mapped.HasPreviousPage,
			StartCursor:     mapped.StartCursor,
			EndCursor:       mapped.EndCursor,
		},
	}
}
