package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"jobportal_backend/internal/models"

	"github.com/stretchr/testify/require"
)

// RegisterAndLogin creates a user through the API and returns its token
// and id.
func RegisterAndLogin(t *testing.T, ts *TestServer, role models.UserRole) (string, string) {
	t.Helper()

	email := fmt.Sprintf("%s_%d@test.com", role, time.Now().UnixNano())
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Test " + string(role),
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var auth struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &auth))
	require.NotEmpty(t, auth.AccessToken)
	return auth.AccessToken, auth.User.ID
}

// CreateCompanyAndJob posts a company and an open job for the recruiter.
func CreateCompanyAndJob(t *testing.T, ts *TestServer, recruiterToken, companyName string) (companyID, jobID string) {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/companies", recruiterToken, map[string]interface{}{
		"name":     companyName,
		"industry": "Software",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	companyID = decodeID(t, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", recruiterToken, map[string]interface{}{
		"title":            "Backend Engineer",
		"description":      "Build and run the job board services.",
		"location":         "Remote",
		"job_type":         models.JobTypeFullTime,
		"experience_level": models.ExperienceMid,
		"company_id":       companyID,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	jobID = decodeID(t, body)
	return companyID, jobID
}

func decodeID(t *testing.T, body string) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}
