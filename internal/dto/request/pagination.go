package request

import (
	"net/url"

	"hotel-reservation/pkg/utils"
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// NewPaginatedRequest reads page and per_page from a query string.
func NewPaginatedRequest(query url.Values) PaginatedRequest {
	return PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	return utils.ClampPerPage(p.PerPage)
}
