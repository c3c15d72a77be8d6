package migration

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tixport/internal/domain/ticket"
	apperrors "tixport/internal/shared/errors"
)

func TestFetcher_Fetch_InlineResourceIsFetchedOnce(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "image-bytes")
	}))
	defer server.Close()

	f := NewFetcher(nil, "/srv/attachments", t.TempDir(), &mockLogger{})
	ref, err := ticket.NewInlineAttachment("photo.png", server.URL+"/files/abc123")
	require.NoError(t, err)

	first, err := f.Fetch(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "photo.png", first.Name)

	data, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	second, err := f.Fetch(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetcher_Fetch_InlineNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewFetcher(nil, "/srv/attachments", t.TempDir(), &mockLogger{})
	ref, err := ticket.NewInlineAttachment("photo.png", server.URL+"/files/gone")
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), ref)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAttachmentMissing))

	// The failure is cached too: the remote is not probed again.
	_, err = f.Fetch(context.Background(), ref)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAttachmentMissing))
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetcher_Fetch_StoredAttachment(t *testing.T) {
	var remote string
	transfer := &mockTransfer{
		DownloadFunc: func(remotePath, localPath string) error {
			remote = remotePath
			return os.WriteFile(localPath, []byte("pdf-bytes"), 0o644)
		},
	}

	scratch := t.TempDir()
	f := NewFetcher(transfer, "/srv/attachments", scratch, &mockLogger{})
	ref, err := ticket.NewStoredAttachment("report.pdf", "abc123")
	require.NoError(t, err)

	file, err := f.Fetch(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "/srv/attachments/abc123", remote)
	assert.Equal(t, "report.pdf", file.Name)
	assert.Equal(t, scratch, filepath.Dir(file.Path))

	data, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestFetcher_Fetch_StoredAttachmentMissing(t *testing.T) {
	transfer := &mockTransfer{
		DownloadFunc: func(remotePath, localPath string) error {
			return fs.ErrNotExist
		},
	}

	f := NewFetcher(transfer, "/srv/attachments", t.TempDir(), &mockLogger{})
	ref, err := ticket.NewStoredAttachment("report.pdf", "abc123")
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), ref)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAttachmentMissing))
}

func TestFetcher_Fetch_StoredWithoutTransferSession(t *testing.T) {
	f := NewFetcher(nil, "/srv/attachments", t.TempDir(), &mockLogger{})
	ref, err := ticket.NewStoredAttachment("report.pdf", "abc123")
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), ref)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAttachmentUpload))
}

func TestFetcher_Cleanup(t *testing.T) {
	scratch := filepath.Join(t.TempDir(), "staging")
	transfer := &mockTransfer{
		DownloadFunc: func(remotePath, localPath string) error {
			return os.WriteFile(localPath, []byte("x"), 0o644)
		},
	}

	f := NewFetcher(transfer, "/srv/attachments", scratch, &mockLogger{})
	ref, err := ticket.NewStoredAttachment("report.pdf", "abc123")
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), ref)
	require.NoError(t, err)

	require.NoError(t, f.Cleanup())
	_, err = os.Stat(scratch)
	assert.True(t, os.IsNotExist(err))
}
