package apperrors

import (
	"fmt"
	"net/http"
)

// =========================================================================
// Factories
// =========================================================================

// ErrNotFound wraps a repository miss (e.g. gorm.ErrRecordNotFound).
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrUpstream wraps an object storage failure.
func ErrUpstream(err error) *AppError {
	return Wrap(err, CodeUpstreamUnavailable, "storage", "Document storage is unavailable", http.StatusBadGateway)
}

// ErrPayloadTooLarge reports the concrete limit that was exceeded.
func ErrPayloadTooLarge(category string, size, limit int64) *AppError {
	return New(
		CodePayloadTooLarge,
		"upload",
		fmt.Sprintf("%s is %d bytes, the limit is %d bytes", category, size, limit),
		http.StatusRequestEntityTooLarge,
	).WithDetails(map[string]interface{}{"category": category, "size": size, "limit": limit})
}

// ErrUnsupportedMediaType reports the rejected type and what is allowed.
func ErrUnsupportedMediaType(category, mimeType string, allowed []string) *AppError {
	return New(
		CodeUnsupportedMediaType,
		"upload",
		fmt.Sprintf("%s of type %q is not allowed", category, mimeType),
		http.StatusUnsupportedMediaType,
	).WithDetails(map[string]interface{}{"category": category, "content_type": mimeType, "allowed": allowed})
}

// =========================================================================
// Jobs
// =========================================================================

var ErrJobNotFound = New(CodeNotFound, "job", "Job not found", http.StatusNotFound)

// ErrJobClosed covers both inactive and expired postings.
var ErrJobClosed = New(CodeJobClosed, "job", "This job is no longer accepting applications", http.StatusBadRequest)

var ErrNotJobPoster = New(CodeForbidden, "job", "Only the recruiter who posted this job can do this", http.StatusForbidden)

// =========================================================================
// Applications
// =========================================================================

var ErrApplicationNotFound = New(CodeNotFound, "application", "Application not found", http.StatusNotFound)

var ErrAlreadyApplied = New(CodeConflict, "application", "You have already applied to this job", http.StatusConflict)

var ErrSelfApply = New(CodeForbidden, "application", "You cannot apply to a job you posted", http.StatusForbidden)

var ErrApplicationAccessDenied = New(CodeForbidden, "application", "You do not have access to this application", http.StatusForbidden)

var ErrNotApplicant = New(CodeForbidden, "application", "Only the applicant can do this", http.StatusForbidden)

var ErrAlreadyWithdrawn = New(CodeConflict, "application", "Application is already withdrawn", http.StatusConflict)

// ErrCannotWithdraw: only pending or reviewing applications can be withdrawn.
var ErrCannotWithdraw = New(CodeConflict, "application", "Application can no longer be withdrawn", http.StatusConflict)

var ErrInvalidStatusTransition = New(CodeInvalidStatus, "application", "Status transition is not allowed", http.StatusConflict)

var ErrResumeRequired = New(CodeValidationFailed, "application", "A resume file is required", http.StatusBadRequest)

// =========================================================================
// Documents
// =========================================================================

var ErrDocumentAccessDenied = New(CodeForbidden, "document", "You do not have access to this document", http.StatusForbidden)

var ErrDocumentNotFound = New(CodeNotFound, "document", "Document not found", http.StatusNotFound)

var ErrUnknownDocumentKind = New(CodeValidationFailed, "document", "Unknown document kind", http.StatusBadRequest)

// =========================================================================
// Companies
// =========================================================================

var ErrCompanyNotFound = New(CodeNotFound, "company", "Company not found", http.StatusNotFound)

var ErrCompanyNameTaken = New(CodeAlreadyExists, "company", "A company with this name already exists", http.StatusConflict)

var ErrNotCompanyOwner = New(CodeForbidden, "company", "Only the company owner can do this", http.StatusForbidden)

// =========================================================================
// Saved jobs
// =========================================================================

var ErrJobAlreadySaved = New(CodeAlreadyExists, "saved_job", "Job is already saved", http.StatusConflict)

var ErrSavedJobNotFound = New(CodeNotFound, "saved_job", "Saved job not found", http.StatusNotFound)

// =========================================================================
// Auth & users
// =========================================================================

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

var ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth", "Email already in use", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrInsufficientRole = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

var ErrRateLimited = New(CodeRateLimited, "rate_limit", "Too many requests, slow down", http.StatusTooManyRequests)
