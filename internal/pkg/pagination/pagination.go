// Package pagination implements limit/offset paging for the admin list
// endpoints.
package pagination

import (
	"strconv"

	"github.com/betheshoe/draftin-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// The admin UI pages drafts twenty at a time; fifty is enough to export a
// whole collection in a couple of requests.
const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 50
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// FromContext extracts pagination params from the request, clamping them into
// the allowed range.
func FromContext(c *gin.Context) Query {
	return Query{
		Page: clamp(parseIntOr(c.Query("page"), DefaultPage), 1, 0),
		Size: clamp(parseIntOr(c.Query("size"), DefaultSize), 1, MaxSize),
	}
}

// Paginate applies limit/offset to a GORM query and returns the pagination
// metadata.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	offset := (q.Page - 1) * q.Size
	if err := db.Offset(offset).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))

	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}, nil
}

func parseIntOr(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// clamp bounds v to [min, max]; max <= 0 means unbounded above.
func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
