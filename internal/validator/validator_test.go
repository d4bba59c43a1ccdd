package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,is-user-role"`
	Status string `json:"status" validate:"omitempty,is-application-status"`
	Kind   string `form:"jobType" validate:"omitempty,is-job-type"`
	Level  string `json:"experience_level" validate:"omitempty,is-experience-level"`
	Size   string `json:"size" validate:"omitempty,is-company-size"`
	Name   string `json:"name" validate:"max=5"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{
		Email:  "a@b.co",
		Role:   "candidate",
		Status: "reviewing",
		Kind:   "full-time",
		Level:  "senior",
		Size:   "1000+",
		Name:   "abc",
	})
	assert.NoError(t, err)
}

func TestValidate_ReportsWireNames(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{
		Email:  "nope",
		Role:   "admin",
		Status: "hired",
		Kind:   "gig",
		Level:  "guru",
		Size:   "huge",
		Name:   "too long",
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "role")
	assert.Contains(t, vErr.Errors, "status")
	assert.Contains(t, vErr.Errors, "jobType")
	assert.Contains(t, vErr.Errors, "experience_level")
	assert.Contains(t, vErr.Errors, "size")
	assert.Equal(t, "Must be at most 5 characters/items long", vErr.Errors["name"])
	assert.Contains(t, vErr.Error(), "field 'email'")
}

func TestValidate_NonStruct(t *testing.T) {
	v := New()
	err := v.Validate("string")
	require.Error(t, err)
	_, isValidation := err.(*ValidationError)
	assert.False(t, isValidation)
}
