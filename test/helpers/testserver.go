package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"jobportal_backend/database"
	"jobportal_backend/internal/app"
	"jobportal_backend/internal/config"
	"jobportal_backend/internal/logger"

	"gorm.io/gorm"
)

// TestDatabaseEnv names the Postgres DSN the integration suite runs against.
const TestDatabaseEnv = "TEST_DATABASE_URL"

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Config *config.Config
}

// NewTestServer starts the full router against the database in
// TEST_DATABASE_URL with local storage under uploadDir. It returns nil when
// the variable is unset so callers can skip.
func NewTestServer(uploadDir string) (*TestServer, error) {
	dsn := os.Getenv(TestDatabaseEnv)
	if dsn == "" {
		return nil, nil
	}

	os.Setenv("DATABASE_URL", dsn)
	os.Setenv("SERVER_ENV", "test")
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "integration_test_secret")
	}
	logger.InitWithWriter("test", io.Discard)

	cfg := config.FromEnv()
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = uploadDir
	cfg.Storage.PublicRead = false
	cfg.RateLimit.Enabled = false

	db, err := database.Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	return &TestServer{
		Server: httptest.NewServer(app.SetupRouter(cfg, db)),
		DB:     db,
		Config: cfg,
	}, nil
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// ClearTables empties every table between tests.
func (ts *TestServer) ClearTables(t *testing.T) {
	t.Helper()
	err := ts.DB.Exec("TRUNCATE TABLE saved_jobs, applications, jobs, companies, users RESTART IDENTITY CASCADE").Error
	if err != nil {
		t.Fatalf("failed to clear tables: %v", err)
	}
}

// SendRequest sends body as JSON and returns the response with its body read.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req, token)
}

// FilePart is one file of a multipart request.
type FilePart struct {
	Filename    string
	ContentType string
	Content     []byte
}

func (ts *TestServer) SendMultipart(t *testing.T, path, token string, fields map[string]string, files map[string]FilePart) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	for field, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+f.Filename+`"`)
		hdr.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("failed to create part %s: %v", field, err)
		}
		part.Write(f.Content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ts.do(t, req, token)
}

// GetNoRedirect returns a 3xx response as is.
func (ts *TestServer) GetNoRedirect(t *testing.T, path, token string) *http.Response {
	t.Helper()

	client := *ts.Server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	return res
}

func (ts *TestServer) do(t *testing.T, req *http.Request, token string) (*http.Response, string) {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return res, string(resBody)
}
