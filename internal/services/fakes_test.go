package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================================
// Storage
// =========================================================================

type memoryStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	signed     bool
	saveErr    error
	getErr     error
	deleteErrs map[string]error
	deleted    []string
	signCalls  int
}

func newMemoryStorage(signed bool) *memoryStorage {
	return &memoryStorage{
		objects:    map[string][]byte{},
		signed:     signed,
		deleteErrs: map[string]error{},
	}
}

func (m *memoryStorage) Save(ctx context.Context, key string, r io.Reader, contentType string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErrs[key]; err != nil {
		return err
	}
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memoryStorage) GetURL(ctx context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func (m *memoryStorage) GetSignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	m.signCalls++
	m.mu.Unlock()
	return fmt.Sprintf("https://files.test/%s?expires=%d&signature=sig", key, int64(expiry.Seconds())), nil
}

func (m *memoryStorage) GetSize(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return 0, storage.ErrObjectNotFound
	}
	return int64(len(data)), nil
}

func (m *memoryStorage) RequiresSignedURL() bool { return m.signed }

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// =========================================================================
// Repositories
// =========================================================================

// memoryDB backs every fake repository so cascades see one state.
type memoryDB struct {
	mu           sync.Mutex
	users        map[string]*models.User
	companies    map[string]*models.Company
	jobs         map[string]*models.Job
	applications map[string]*models.Application
	saved        map[string]*models.SavedJob
	createDelay  time.Duration
	// beforeCascade runs inside a job cascade with the lock held, standing in
	// for a write that lands between the ownership check and the delete.
	beforeCascade func()
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:        map[string]*models.User{},
		companies:    map[string]*models.Company{},
		jobs:         map[string]*models.Job{},
		applications: map[string]*models.Application{},
		saved:        map[string]*models.SavedJob{},
	}
}

type fakeUserRepo struct{ db *memoryDB }

func (r *fakeUserRepo) CreateUser(_ *gorm.DB, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindUserByID(_ *gorm.DB, id string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindUserByEmail(_ *gorm.DB, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUser(_ *gorm.DB, id string, updates map[string]interface{}) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			u.Name = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "location":
			u.Location = v.(string)
		case "avatar_url":
			u.AvatarURL = v.(string)
		case "avatar_key":
			u.AvatarKey = v.(string)
		}
	}
	return nil
}

type fakeCompanyRepo struct{ db *memoryDB }

func (r *fakeCompanyRepo) CreateCompany(_ *gorm.DB, c *models.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.companies {
		if strings.EqualFold(existing.Name, c.Name) {
			return repositories.ErrCompanyNameTaken
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	r.db.companies[c.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) FindCompanyByID(_ *gorm.DB, id string) (*models.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.companies[id]
	if !ok {
		return nil, repositories.ErrCompanyNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompanyRepo) FindCompanyByName(_ *gorm.DB, name string) (*models.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.companies {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrCompanyNotFound
}

func (r *fakeCompanyRepo) FindCompaniesByOwner(_ *gorm.DB, ownerID string) ([]models.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Company
	for _, c := range r.db.companies {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCompanyRepo) ListCompanies(_ *gorm.DB, _ repositories.CompanyFilter) ([]models.Company, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Company
	for _, c := range r.db.companies {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCompanyRepo) UpdateCompany(_ *gorm.DB, id string, updates map[string]interface{}) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.companies[id]
	if !ok {
		return repositories.ErrCompanyNotFound
	}
	if name, ok := updates["name"].(string); ok {
		for _, other := range r.db.companies {
			if other.ID != id && strings.EqualFold(other.Name, name) {
				return repositories.ErrCompanyNameTaken
			}
		}
		c.Name = name
	}
	if desc, ok := updates["description"].(string); ok {
		c.Description = desc
	}
	return nil
}

func (r *fakeCompanyRepo) DeleteCompanyCascade(_ *gorm.DB, id string) (*repositories.CascadeResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.companies[id]; !ok {
		return nil, repositories.ErrCompanyNotFound
	}
	var out repositories.CascadeResult
	for jobID, job := range r.db.jobs {
		if job.CompanyID == id {
			out.Documents = append(out.Documents, r.db.deleteJobLocked(jobID)...)
			out.Jobs++
		}
	}
	delete(r.db.companies, id)
	return &out, nil
}

// deleteJobLocked returns the documents of the applications it removed.
func (m *memoryDB) deleteJobLocked(jobID string) []models.ApplicationDocuments {
	var docs []models.ApplicationDocuments
	for id, app := range m.applications {
		if app.JobID == jobID {
			docs = append(docs, app.Docs())
			delete(m.applications, id)
		}
	}
	for id, s := range m.saved {
		if s.JobID == jobID {
			delete(m.saved, id)
		}
	}
	delete(m.jobs, jobID)
	return docs
}

type fakeJobRepo struct{ db *memoryDB }

func (r *fakeJobRepo) CreateJob(_ *gorm.DB, job *models.Job) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	cp := *job
	r.db.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) FindJobByID(_ *gorm.DB, id string) (*models.Job, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	j, ok := r.db.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	cp := *j
	if c, ok := r.db.companies[j.CompanyID]; ok {
		company := *c
		cp.Company = &company
	}
	return &cp, nil
}

func (r *fakeJobRepo) SearchJobs(_ *gorm.DB, filter repositories.JobFilter) ([]models.Job, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Job
	for _, j := range r.db.jobs {
		if j.AcceptsApplications(filter.Now) {
			out = append(out, *j)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeJobRepo) FindJobsByPoster(_ *gorm.DB, posterID string) ([]models.Job, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Job
	for _, j := range r.db.jobs {
		if j.PostedByID == posterID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) UpdateJob(_ *gorm.DB, id string, updates map[string]interface{}) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	j, ok := r.db.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	if title, ok := updates["title"].(string); ok {
		j.Title = title
	}
	if active, ok := updates["is_active"].(bool); ok {
		j.IsActive = active
	}
	return nil
}

func (r *fakeJobRepo) DeleteJobCascade(_ *gorm.DB, id string) (*repositories.CascadeResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.jobs[id]; !ok {
		return nil, repositories.ErrJobNotFound
	}
	if r.db.beforeCascade != nil {
		r.db.beforeCascade()
	}
	return &repositories.CascadeResult{Jobs: 1, Documents: r.db.deleteJobLocked(id)}, nil
}

type fakeApplicationRepo struct{ db *memoryDB }

func (r *fakeApplicationRepo) CreateApplication(_ *gorm.DB, app *models.Application) error {
	if r.db.createDelay > 0 {
		time.Sleep(r.db.createDelay)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.applications {
		if existing.ApplicantID == app.ApplicantID && existing.JobID == app.JobID {
			return repositories.ErrApplicationExists
		}
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	cp := *app
	cp.Job = nil
	r.db.applications[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) FindApplicationByID(_ *gorm.DB, id string) (*models.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.applications[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	cp := *a
	if j, ok := r.db.jobs[a.JobID]; ok {
		job := *j
		cp.Job = &job
	}
	return &cp, nil
}

func (r *fakeApplicationRepo) ExistsForApplicantAndJob(_ *gorm.DB, applicantID, jobID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.applications {
		if a.ApplicantID == applicantID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) list(match func(*models.Application) bool, includeWithdrawn bool) []models.Application {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Application
	for _, a := range r.db.applications {
		if !match(a) || (a.Withdrawn && !includeWithdrawn) {
			continue
		}
		out = append(out, *a)
	}
	// applied_at desc
	for i := 1; i < len(out); i++ {
		for k := i; k > 0 && out[k].AppliedAt.After(out[k-1].AppliedAt); k-- {
			out[k], out[k-1] = out[k-1], out[k]
		}
	}
	return out
}

func (r *fakeApplicationRepo) ListByApplicant(_ *gorm.DB, applicantID string, includeWithdrawn bool) ([]models.Application, error) {
	return r.list(func(a *models.Application) bool { return a.ApplicantID == applicantID }, includeWithdrawn), nil
}

func (r *fakeApplicationRepo) ListByJob(_ *gorm.DB, jobID string, includeWithdrawn bool) ([]models.Application, error) {
	return r.list(func(a *models.Application) bool { return a.JobID == jobID }, includeWithdrawn), nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ *gorm.DB, id string, change repositories.StatusChange) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.applications[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.Status = change.Status
	at := change.UpdatedAt
	a.StatusUpdatedAt = &at
	by := change.UpdatedBy
	a.StatusUpdatedByID = &by
	if change.Notes != nil {
		a.RecruiterNotes = *change.Notes
	}
	if change.Interview != nil {
		iv := datatypes.NewJSONType(*change.Interview)
		a.Interview = &iv
	}
	return nil
}

func (r *fakeApplicationRepo) MarkWithdrawn(_ *gorm.DB, id string, at time.Time, reason string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.applications[id]
	if !ok || !a.CanBeWithdrawn() {
		return repositories.ErrApplicationNotWithdrawable
	}
	a.Withdrawn = true
	a.WithdrawnAt = &at
	a.WithdrawalReason = reason
	return nil
}

type fakeSavedJobRepo struct{ db *memoryDB }

func (r *fakeSavedJobRepo) CreateSavedJob(_ *gorm.DB, s *models.SavedJob) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.saved {
		if existing.UserID == s.UserID && existing.JobID == s.JobID {
			return repositories.ErrSavedJobExists
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	cp := *s
	r.db.saved[s.ID] = &cp
	return nil
}

func (r *fakeSavedJobRepo) DeleteSavedJob(_ *gorm.DB, userID, jobID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, s := range r.db.saved {
		if s.UserID == userID && s.JobID == jobID {
			delete(r.db.saved, id)
			return nil
		}
	}
	return repositories.ErrSavedJobNotFound
}

func (r *fakeSavedJobRepo) ListSavedJobs(_ *gorm.DB, userID string) ([]models.SavedJob, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.SavedJob
	for _, s := range r.db.saved {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSavedJobRepo) IsSaved(_ *gorm.DB, userID, jobID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.saved {
		if s.UserID == userID && s.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

// =========================================================================
// Fixture
// =========================================================================

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db           *memoryDB
	store        *memoryStorage
	uploads      *UploadServiceImpl
	applications *ApplicationServiceImpl
	documents    *DocumentServiceImpl
	jobs         *JobServiceImpl
	companies    *CompanyServiceImpl
	saved        SavedJobService

	recruiterID string
	candidateID string
	company     *models.Company
	job         *models.Job
}

func newFixture(signed bool) *fixture {
	db := newMemoryDB()
	store := newMemoryStorage(signed)

	uploads := NewUploadService(store, NewUploadValidator(DefaultUploadRules()), nil).(*UploadServiceImpl)
	uploads.now = func() time.Time { return fixedNow }

	appRepo := &fakeApplicationRepo{db: db}
	jobRepo := &fakeJobRepo{db: db}
	companyRepo := &fakeCompanyRepo{db: db}

	applications := NewApplicationService(appRepo, jobRepo, uploads, ApplicationPolicy{}).(*ApplicationServiceImpl)
	applications.now = func() time.Time { return fixedNow }

	jobs := NewJobService(jobRepo, companyRepo, uploads).(*JobServiceImpl)
	jobs.now = func() time.Time { return fixedNow }

	f := &fixture{
		db:           db,
		store:        store,
		uploads:      uploads,
		applications: applications,
		documents:    NewDocumentService(appRepo, store, DeliveryConfig{}).(*DocumentServiceImpl),
		jobs:         jobs,
		companies:    NewCompanyService(companyRepo, uploads).(*CompanyServiceImpl),
		saved:        NewSavedJobService(&fakeSavedJobRepo{db: db}, jobRepo),
		recruiterID:  uuid.NewString(),
		candidateID:  uuid.NewString(),
	}

	f.company = &models.Company{Name: "Acme", OwnerID: f.recruiterID}
	f.company.ID = uuid.NewString()
	db.companies[f.company.ID] = f.company

	f.job = f.addJob(true, fixedNow.Add(7*24*time.Hour))
	return f
}

func (f *fixture) addJob(active bool, expiresAt time.Time) *models.Job {
	job := &models.Job{
		Title:      "Backend Engineer",
		CompanyID:  f.company.ID,
		PostedByID: f.recruiterID,
		IsActive:   active,
		ExpiresAt:  expiresAt,
	}
	job.ID = uuid.NewString()
	f.db.mu.Lock()
	f.db.jobs[job.ID] = job
	f.db.mu.Unlock()
	return job
}

func pdfFile(name string, size int) *FileInput {
	return &FileInput{
		Filename:    name,
		ContentType: "application/pdf",
		Size:        int64(size),
		Reader:      bytes.NewReader(bytes.Repeat([]byte("a"), size)),
	}
}

var errBoom = errors.New("boom")

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
