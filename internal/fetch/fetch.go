// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads paper PDFs with bounded retries and collects
// best-effort bibliographic metadata.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/paper-figures/internal/reference"
	"github.com/pdiddy/paper-figures/pkg/types"
)

// transientError marks a failure worth retrying: network errors, throttling,
// server errors, and empty or truncated bodies.
type transientError struct {
	cause error
}

func (e *transientError) Error() string { return e.cause.Error() }
func (e *transientError) Unwrap() error { return e.cause }

// Fetch downloads the reference's PDF into destDir and returns the local
// path. Transient failures are retried up to cfg.MaxRetries times with
// exponential backoff starting at cfg.RetryBaseDelay: base, 2x, 4x, ...
// Cancelling ctx aborts the download, including mid-backoff. After
// exhausting retries it returns a DownloadError wrapping the last cause.
func Fetch(ctx context.Context, client *http.Client, ref types.PaperReference, destDir string, cfg types.FetchConfig) (string, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", &types.DownloadError{URL: ref.PDFURL, Attempts: 0, Cause: err}
	}
	destPath := filepath.Join(destDir, reference.Slug(ref.ID)+".pdf")

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * baseDelay
			select {
			case <-ctx.Done():
				return "", &types.DownloadError{URL: ref.PDFURL, Attempts: attempt, Cause: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		err := downloadOnce(ctx, client, ref.PDFURL, destPath, cfg)
		if err == nil {
			return destPath, nil
		}
		lastErr = err

		var transient *transientError
		if !errors.As(err, &transient) {
			return "", &types.DownloadError{URL: ref.PDFURL, Attempts: attempt + 1, Cause: err}
		}
		if ctx.Err() != nil {
			return "", &types.DownloadError{URL: ref.PDFURL, Attempts: attempt + 1, Cause: ctx.Err()}
		}
	}

	return "", &types.DownloadError{URL: ref.PDFURL, Attempts: maxRetries + 1, Cause: lastErr}
}

// downloadOnce performs a single GET and writes the body to destPath through
// a temporary file, renamed only on success so a partial download never
// lands at the final path.
func downloadOnce(ctx context.Context, client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return &transientError{cause: fmt.Errorf("HTTP request: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return &transientError{cause: fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)}
	default:
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	written, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return &transientError{cause: fmt.Errorf("writing download: %w", copyErr)}
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	// A zero-byte or short body is a corrupt download, not a success.
	if written == 0 {
		os.Remove(tmpPath)
		return &transientError{cause: fmt.Errorf("empty response body from %s", url)}
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		os.Remove(tmpPath)
		return &transientError{cause: fmt.Errorf("truncated download from %s: got %d of %d bytes", url, written, resp.ContentLength)}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
