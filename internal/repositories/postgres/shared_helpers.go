package postgres

import (
	"gorm.io/gorm"
)

// applySortAndPagination applies whitelisted sorting and pagination.
// Column names never come from user input unvalidated.
func applySortAndPagination(query *gorm.DB, sortBy, sortOrder string, limit, offset int, allowed map[string]bool, defaultSort string) *gorm.DB {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = defaultSort
	}

	if sortOrder != "desc" && sortOrder != "DESC" {
		sortOrder = "ASC"
	} else {
		sortOrder = "DESC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// scopeContainer narrows a query to one (course, folder) container.
// A nil folderID addresses the course root, which is a NULL column
// value and needs IS NULL rather than an equality match.
func scopeContainer(query *gorm.DB, column string, courseID string, folderID *string) *gorm.DB {
	query = query.Where("course_id = ?", courseID)
	if folderID == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", *folderID)
}
