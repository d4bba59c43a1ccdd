package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanyNameTaken = errors.New("company name already taken")

	ErrJobNotFound = errors.New("job not found")

	ErrApplicationNotFound        = errors.New("application not found")
	ErrApplicationExists          = errors.New("application already exists for this applicant and job")
	ErrApplicationNotWithdrawable = errors.New("application cannot be withdrawn")

	ErrSavedJobNotFound = errors.New("saved job not found")
	ErrSavedJobExists   = errors.New("job already saved")
)

// pgUniqueViolation is SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// IsUniqueViolation recognises a unique constraint failure both when gorm
// translated it and when the raw driver error comes through.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Pagination is 1-based.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.limit()
}

func (p Pagination) limit() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}
