package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func appliedFixture(t *testing.T, signed bool) (*fixture, *models.Application) {
	t.Helper()
	f := newFixture(signed)
	app, err := f.applications.Apply(context.Background(), nil, f.candidateID, applyRequest(f.job.ID), pdfFile("cv.pdf", 64), nil)
	require.NoError(t, err)
	return f, app
}

func TestDocumentAccess_ThirdPartyForbiddenInEveryMode(t *testing.T) {
	f, app := appliedFixture(t, true)
	ctx := context.Background()
	stranger := uuid.NewString()

	_, err := f.documents.GetMetadata(ctx, nil, stranger, app.ID, models.DocumentResume)
	assert.ErrorIs(t, err, apperrors.ErrDocumentAccessDenied)

	_, _, err = f.documents.ResolveRedirect(ctx, nil, stranger, app.ID, models.DocumentResume)
	assert.ErrorIs(t, err, apperrors.ErrDocumentAccessDenied)

	_, err = f.documents.OpenStream(ctx, nil, stranger, app.ID, models.DocumentResume)
	assert.ErrorIs(t, err, apperrors.ErrDocumentAccessDenied)

	_, err = f.documents.Inventory(ctx, nil, stranger, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrDocumentAccessDenied)

	assert.Zero(t, f.store.signCalls, "nothing may be signed for a stranger")
}

func TestDocumentAccess_CheckOrder(t *testing.T) {
	f, app := appliedFixture(t, false)
	ctx := context.Background()

	// Missing application beats everything.
	_, err := f.documents.GetMetadata(ctx, nil, uuid.NewString(), uuid.NewString(), models.DocumentResume)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	// A stranger asking for an empty slot is still forbidden.
	_, err = f.documents.GetMetadata(ctx, nil, uuid.NewString(), app.ID, models.DocumentCoverLetter)
	assert.ErrorIs(t, err, apperrors.ErrDocumentAccessDenied)

	// The applicant asking for an empty slot gets not found.
	_, err = f.documents.GetMetadata(ctx, nil, f.candidateID, app.ID, models.DocumentCoverLetter)
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}

func TestDocumentMetadata(t *testing.T) {
	f, app := appliedFixture(t, false)

	for _, caller := range []string{f.candidateID, f.recruiterID} {
		meta, err := f.documents.GetMetadata(context.Background(), nil, caller, app.ID, models.DocumentResume)
		require.NoError(t, err)
		assert.Equal(t, "cv.pdf", meta.Filename)
		assert.Equal(t, int64(64), meta.FileSize)
		assert.Equal(t, "application/pdf", meta.ContentType)
		assert.Equal(t, app.Docs().Resume.RetrievalURL, meta.DownloadURL)
		assert.Empty(t, meta.SignedURL)
	}
}

func TestDocumentRedirect(t *testing.T) {
	t.Run("public object uses the stored url", func(t *testing.T) {
		f, app := appliedFixture(t, false)
		url, desc, err := f.documents.ResolveRedirect(context.Background(), nil, f.recruiterID, app.ID, models.DocumentResume)
		require.NoError(t, err)
		assert.Equal(t, desc.RetrievalURL, url)
		assert.Zero(t, f.store.signCalls)
	})

	t.Run("private object is signed for an hour", func(t *testing.T) {
		f, app := appliedFixture(t, true)
		url, _, err := f.documents.ResolveRedirect(context.Background(), nil, f.recruiterID, app.ID, models.DocumentResume)
		require.NoError(t, err)
		assert.Contains(t, url, "expires=3600")
		assert.Contains(t, url, "signature=")
		assert.Equal(t, 1, f.store.signCalls)
	})
}

func TestDocumentProxy_StreamsBytes(t *testing.T) {
	f, app := appliedFixture(t, false)

	stream, err := f.documents.OpenStream(context.Background(), nil, f.candidateID, app.ID, models.DocumentResume)
	require.NoError(t, err)
	defer stream.Body.Close()

	body, err := io.ReadAll(stream.Body)
	require.NoError(t, err)
	assert.Len(t, body, 64)
	assert.Equal(t, int64(64), stream.ContentLength)
	assert.Equal(t, "cv.pdf", stream.Descriptor.OriginalFilename)
}

func TestDocumentProxy_UpstreamUnavailable(t *testing.T) {
	f, app := appliedFixture(t, false)
	f.store.getErr = errBoom

	_, err := f.documents.OpenStream(context.Background(), nil, f.candidateID, app.ID, models.DocumentResume)
	assert.Equal(t, apperrors.CodeUpstreamUnavailable, apperrors.CodeOf(err))
}

func TestDocumentProxy_URLOnlyDescriptor(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte("legacy-bytes"))
	}))
	defer upstream.Close()

	f := newFixture(false)
	app := &models.Application{
		ApplicantID: f.candidateID,
		JobID:       f.job.ID,
		Status:      models.ApplicationStatusPending,
		Documents: datatypes.NewJSONType(models.ApplicationDocuments{
			Resume: &models.AttachmentDescriptor{RetrievalURL: upstream.URL + "/cv", OriginalFilename: "old.pdf"},
		}),
		AppliedAt: fixedNow,
	}
	app.ID = uuid.NewString()
	f.db.applications[app.ID] = app

	stream, err := f.documents.OpenStream(context.Background(), nil, f.candidateID, app.ID, models.DocumentResume)
	require.NoError(t, err)
	body, _ := io.ReadAll(stream.Body)
	require.NoError(t, stream.Body.Close())
	assert.Equal(t, "legacy-bytes", string(body))
	assert.Equal(t, DefaultContentType, ContentTypeOrDefault(&stream.Descriptor))

	status.Store(http.StatusNotFound)
	_, err = f.documents.OpenStream(context.Background(), nil, f.candidateID, app.ID, models.DocumentResume)
	assert.Equal(t, apperrors.CodeUpstreamUnavailable, apperrors.CodeOf(err))
}

func TestDocumentProxy_CancelStopsTransfer(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("first chunk"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer upstream.Close()
	defer close(release)

	f := newFixture(false)
	app := &models.Application{
		ApplicantID: f.candidateID,
		JobID:       f.job.ID,
		Documents: datatypes.NewJSONType(models.ApplicationDocuments{
			Resume: &models.AttachmentDescriptor{RetrievalURL: upstream.URL},
		}),
	}
	app.ID = uuid.NewString()
	f.db.applications[app.ID] = app

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := f.documents.OpenStream(ctx, nil, f.candidateID, app.ID, models.DocumentResume)
	require.NoError(t, err)
	defer stream.Body.Close()

	buf := make([]byte, len("first chunk"))
	_, err = io.ReadFull(stream.Body, buf)
	require.NoError(t, err)

	cancel()
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadAll(stream.Body)
		done <- err
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("read did not stop after cancel")
	}
}

func TestDocumentInventory(t *testing.T) {
	f, app := appliedFixture(t, false)

	inv, err := f.documents.Inventory(context.Background(), nil, f.recruiterID, app.ID)
	require.NoError(t, err)
	require.Len(t, inv.Documents, 2)
	assert.Equal(t, models.DocumentResume, inv.Documents[0].Kind)
	assert.True(t, inv.Documents[0].Present)
	require.NotNil(t, inv.Documents[0].Descriptor)
	assert.Equal(t, "cv.pdf", inv.Documents[0].Descriptor.OriginalFilename)
	assert.False(t, inv.Documents[1].Present)
	assert.Nil(t, inv.Documents[1].Descriptor)
}
