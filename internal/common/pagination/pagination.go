// Package pagination implements offset-based paging for list endpoints.
package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	"mysite/pkg/config"
)

// Config holds pagination settings.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns page=1, limit=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT.
// A default limit above the maximum is capped to the maximum.
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		DefaultPage:  def.DefaultPage,
		DefaultLimit: config.GetEnvPositiveInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     config.GetEnvPositiveInt("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return cfg
}

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// ParseQueryParams reads the page and limit query parameters.
// Missing parameters take the configured defaults; malformed ones are an error.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	params := Params{
		Page:  cfg.DefaultPage,
		Limit: cfg.DefaultLimit,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Page = page
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > cfg.MaxLimit {
			return params, fmt.Errorf("invalid query parameter: limit must be between 1 and %d", cfg.MaxLimit)
		}
		params.Limit = limit
	}

	return params, nil
}

// Offset returns the row offset of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Metadata contains pagination metadata included in API responses.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewMetadata builds the metadata for a page given the total item count.
func NewMetadata(p Params, total int64) Metadata {
	return Metadata{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: CalculateTotalPages(total, p.Limit),
	}
}

// CalculateTotalPages uses ceiling division and never returns less than 1.
func CalculateTotalPages(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Response is a generic paginated response wrapper.
type Response[T any] struct {
	Data       []T      `json:"data"`
	Pagination Metadata `json:"pagination"`
}

// NewResponse creates a paginated response. A nil slice is encoded as [].
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{
		Data:       data,
		Pagination: metadata,
	}
}
