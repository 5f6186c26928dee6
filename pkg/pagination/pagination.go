// Package pagination turns page/limit requests from list endpoints into bounded query windows.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a validated page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// New clamps page and limit into range. Values below one fall back to the first page and the
// default limit; limits above MaxLimit are capped.
func New(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// FromQuery reads ?page= and ?limit=. Non-numeric values count as absent.
func FromQuery(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return New(page, limit)
}

// Offset is the number of rows before this page
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Scope restricts a gorm query to this page, for use with db.Scopes
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// TotalPages is how many pages of p.Limit rows hold total rows
func (p Params) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
