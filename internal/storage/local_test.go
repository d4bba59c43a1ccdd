package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(Config{
		BasePath:   t.TempDir(),
		BaseURL:    "/api/v1/files/",
		SigningKey: "test-key",
	})
	require.NoError(t, err)
	return s
}

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "applications/resumes/a.pdf", strings.NewReader("%PDF-1.4"), "application/pdf"))

	ok, err := s.Exists(ctx, "applications/resumes/a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	size, err := s.GetSize(ctx, "applications/resumes/a.pdf")
	require.NoError(t, err)
	assert.EqualValues(t, 8, size)

	rc, err := s.Get(ctx, "applications/resumes/a.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4", string(body))

	require.NoError(t, s.Delete(ctx, "applications/resumes/a.pdf"))
	_, err = s.Get(ctx, "applications/resumes/a.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, "applications/resumes/a.pdf"))
}

func TestLocalStorage_KeyCannotEscapeBase(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), "text/plain"))
	ok, err := s.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "dot segments are resolved inside the base path")

	_, err = s.resolve("")
	assert.Error(t, err)
}

func TestLocalStorage_SignedURL(t *testing.T) {
	s := newTestLocal(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	signed, err := s.GetSignedURL(context.Background(), "docs/a.pdf", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "/api/v1/files/docs/a.pdf?"))

	u, err := url.Parse(signed)
	require.NoError(t, err)
	expires := u.Query().Get("expires")
	sig := u.Query().Get("signature")

	assert.True(t, s.VerifySignature("docs/a.pdf", expires, sig))
	assert.False(t, s.VerifySignature("docs/b.pdf", expires, sig), "signature is bound to the key")
	assert.False(t, s.VerifySignature("docs/a.pdf", expires, "00"+sig[2:]))

	now = now.Add(2 * time.Hour)
	assert.False(t, s.VerifySignature("docs/a.pdf", expires, sig), "expired")
}

func TestLocalStorage_GetHonoursContext(t *testing.T) {
	s := newTestLocal(t)
	require.NoError(t, s.Save(context.Background(), "a.txt", strings.NewReader("hello"), "text/plain"))

	ctx, cancel := context.WithCancel(context.Background())
	rc, err := s.Get(ctx, "a.txt")
	require.NoError(t, err)
	defer rc.Close()

	cancel()
	_, err = rc.Read(make([]byte, 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestRequiresSignedURL(t *testing.T) {
	private := newTestLocal(t)
	assert.True(t, private.RequiresSignedURL())

	public, err := NewLocalStorage(Config{BasePath: t.TempDir(), PublicRead: true})
	require.NoError(t, err)
	assert.False(t, public.RequiresSignedURL())
}
