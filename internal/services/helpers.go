package services

import (
	"github.com/google/uuid"
)

// validID filters out ids that can never match a row, so they surface as
// not found instead of a uuid cast error from postgres.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
