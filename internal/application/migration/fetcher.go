package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"tixport/internal/domain/ticket"
	apperrors "tixport/internal/shared/errors"
	"tixport/internal/shared/logger"
)

// FileTransfer is the remote storage session stored attachments are pulled
// from. A missing remote path must surface as fs.ErrNotExist.
type FileTransfer interface {
	Download(remotePath, localPath string) error
}

// LocalFile is a fetched attachment staged on local disk.
type LocalFile struct {
	Name string
	Path string
}

type fetchEntry struct {
	once sync.Once
	file LocalFile
	err  error
}

// Fetcher resolves attachment references to local files. Each distinct remote
// path is fetched at most once per run; repeated references share the first
// outcome, including failures.
type Fetcher struct {
	transfer   FileTransfer
	httpClient *http.Client
	remoteBase string
	scratchDir string
	logger     logger.Interface

	mu      sync.Mutex
	entries map[string]*fetchEntry
}

func NewFetcher(
	transfer FileTransfer,
	remoteBase string,
	scratchDir string,
	log logger.Interface,
) *Fetcher {
	return &Fetcher{
		transfer:   transfer,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		remoteBase: remoteBase,
		scratchDir: scratchDir,
		logger:     log,
		entries:    make(map[string]*fetchEntry),
	}
}

// Fetch stages the referenced attachment locally and returns its file. Safe
// for concurrent use; concurrent requests for the same remote path block on a
// single fetch.
func (f *Fetcher) Fetch(ctx context.Context, ref ticket.AttachmentRef) (LocalFile, error) {
	key := ref.RemotePath(f.remoteBase)

	f.mu.Lock()
	entry, ok := f.entries[key]
	if !ok {
		entry = &fetchEntry{}
		f.entries[key] = entry
	}
	f.mu.Unlock()

	entry.once.Do(func() {
		entry.file, entry.err = f.fetch(ctx, ref, key)
		if entry.err != nil {
			f.logger.Warnw("attachment fetch failed",
				"name", ref.Name(), "remote", key, "error", entry.err)
		}
	})
	return entry.file, entry.err
}

// Cleanup removes the staging directory and all fetched files.
func (f *Fetcher) Cleanup() error {
	return os.RemoveAll(f.scratchDir)
}

func (f *Fetcher) fetch(ctx context.Context, ref ticket.AttachmentRef, remote string) (LocalFile, error) {
	if err := os.MkdirAll(f.scratchDir, 0o755); err != nil {
		return LocalFile{}, apperrors.NewAttachmentUploadFailed(
			fmt.Sprintf("cannot create staging directory %s", f.scratchDir), err)
	}
	local := filepath.Join(f.scratchDir, uuid.NewString()+"-"+filepath.Base(ref.Name()))

	if ref.IsInline() {
		if err := f.fetchHTTP(ctx, ref.URL(), local); err != nil {
			return LocalFile{}, err
		}
		return LocalFile{Name: ref.Name(), Path: local}, nil
	}

	if f.transfer == nil {
		return LocalFile{}, apperrors.NewAttachmentUploadFailed(
			fmt.Sprintf("no file transfer session for stored attachment %s", ref.Name()), nil)
	}
	if err := f.transfer.Download(remote, local); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LocalFile{}, apperrors.NewAttachmentMissing(
				fmt.Sprintf("stored attachment %s not found at %s", ref.Name(), remote), err)
		}
		return LocalFile{}, apperrors.NewAttachmentUploadFailed(
			fmt.Sprintf("failed to download stored attachment %s", ref.Name()), err)
	}
	return LocalFile{Name: ref.Name(), Path: local}, nil
}

// fetchHTTP downloads an inline resource with a single retry on transient
// failures, mirroring the destination client's retry posture.
func (f *Fetcher) fetchHTTP(ctx context.Context, url, local string) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			return backoff.Permanent(apperrors.NewAttachmentMissing(
				fmt.Sprintf("inline resource %s returned status %d", url, resp.StatusCode), nil))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			err := fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
			if isTransientStatus(resp.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}

		dst, err := os.Create(local)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer dst.Close()
		if _, err := io.Copy(dst, resp.Body); err != nil {
			os.Remove(local)
			return fmt.Errorf("failed to read inline resource %s: %w", url, err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), 1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		var me *apperrors.MigrationError
		if errors.As(err, &me) {
			return me
		}
		return apperrors.NewAttachmentUploadFailed(
			fmt.Sprintf("failed to fetch inline resource %s", url), err)
	}
	return nil
}

func isTransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
