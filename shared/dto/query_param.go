package dto

import (
	"net/http"
	"strings"
	"taskapp/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams carries the ordering of a listing. Listings are never paginated.
type QueryParams struct {
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest populates QueryParams from the request's query string.
// An unknown sort direction is ignored, as is a sort column outside allowedSortBy.
func (q *QueryParams) FromRequest(r *http.Request, allowedSortBy ...string) {
	queryParams := r.URL.Query()

	if sortBy := queryParams.Get(constant.RequestParamSortBy); sortBy != "" {
		for _, allowed := range allowedSortBy {
			if sortBy == allowed {
				q.SortBy = sortBy

				break
			}
		}
	}

	if sortDir := strings.ToUpper(queryParams.Get(constant.RequestParamSortDir)); sortDir == SortDirAsc || sortDir == SortDirDesc {
		q.SortDir = sortDir
	}
}

// OrderBy renders the ORDER BY clause, falling back to defaultColumn ascending.
func (q *QueryParams) OrderBy(defaultColumn string) string {
	column := q.SortBy
	if column == "" {
		column = defaultColumn
	}

	if column == "" {
		return ""
	}

	direction := q.SortDir
	if direction == "" {
		direction = SortDirAsc
	}

	return "ORDER BY " + column + " " + direction
}
