package executor

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/types"
)

type stagedDownload struct {
	entry types.ManifestEntry
	path  string
}

type failedDownload struct {
	entry types.ManifestEntry
	err   error
}

// downloadAll fetches every entry into the staging directory with bounded
// concurrency, verifying each file's sha1 as soon as its download finishes.
// One entry failing never blocks the others. Hash mismatches are never
// retried: a corrupt source stays corrupt.
func (e *Executor) downloadAll(ctx context.Context, staging string, entries []types.ManifestEntry) ([]stagedDownload, []failedDownload) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		staged  []stagedDownload
		failed  []failedDownload
		workers = make(chan struct{}, e.workers)
	)

	for _, entry := range entries {
		wg.Add(1)
		workers <- struct{}{}
		go func(entry types.ManifestEntry) {
			defer wg.Done()
			defer func() { <-workers }()

			path, err := e.downloadOne(ctx, staging, entry)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, failedDownload{entry: entry, err: err})
				return
			}
			staged = append(staged, stagedDownload{entry: entry, path: path})
		}(entry)
	}
	wg.Wait()
	return staged, failed
}

// downloadOne tries each URL of an entry in order and verifies the result.
func (e *Executor) downloadOne(ctx context.Context, staging string, entry types.ManifestEntry) (string, error) {
	if len(entry.DownloadURLs) == 0 {
		return "", errors.Newf(errors.ErrDownloadFailed, "no download URLs")
	}
	dest := filepath.Join(staging, entry.Filename())

	var lastErr error
	for _, url := range entry.DownloadURLs {
		if ctx.Err() != nil {
			return "", errors.Wrap(ctx.Err(), errors.ErrDownloadFailed, "download canceled")
		}

		resp, err := e.client.R().SetContext(ctx).SetOutput(dest).Get(url)
		if err != nil {
			lastErr = errors.Wrapf(err, errors.ErrDownloadFailed, "downloading %s", url)
			continue
		}
		if resp.StatusCode() != 200 {
			lastErr = errors.Newf(errors.ErrDownloadFailed, "downloading %s: status %d", url, resp.StatusCode())
			continue
		}

		if err := verifySHA1(dest, entry.SHA1); err != nil {
			return "", err
		}
		return dest, nil
	}
	return "", lastErr
}

// verifySHA1 checks a downloaded file against its manifest hash. An empty
// expected hash skips verification.
func verifySHA1(path, expected string) error {
	if expected == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "reading %s for verification", path)
	}

	sum := sha1.Sum(data)
	actual := hex.EncodeToString(sum[:])
	if actual != expected {
		return errors.New(errors.ErrHashMismatch,
			fmt.Sprintf("%s: sha1 %s, expected %s", filepath.Base(path), actual, expected))
	}
	return nil
}
