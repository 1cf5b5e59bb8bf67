package database

import (
	"gorm.io/gorm"

	"github.com/taskflow-app/taskflow-api/internal/utils"
)

// Paginate applies pagination to a GORM query. The offset is derived from
// the page number so callers never pass an inconsistent pair.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (params.Page - 1) * params.Limit
		if offset < 0 {
			offset = 0
		}
		return db.Offset(offset).Limit(params.Limit)
	}
}
