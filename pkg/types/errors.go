// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// InvalidReferenceError reports an input that is not a recognized arXiv
// identifier or URL. Never retried.
type InvalidReferenceError struct {
	Input string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid arXiv reference %q: expected an arXiv ID (e.g. 2412.15289) or an arxiv.org abs/pdf URL", e.Input)
}

// DownloadError reports a PDF download that failed after exhausting retries.
type DownloadError struct {
	URL      string
	Attempts int
	Cause    error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading %s failed after %d attempt(s): %v (check the URL and network connectivity)", e.URL, e.Attempts, e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

// ExtractionError reports a missing or failing extraction tool. The message
// always names the tool and how to fix the problem.
type ExtractionError struct {
	Tool        string
	Remediation string
	Cause       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction tool %q failed: %v (%s)", e.Tool, e.Cause, e.Remediation)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// ImageProcessingError reports a single corrupt or undecodable image. It is
// recovered locally by falling back to the unmodified source file and never
// aborts a harvest.
type ImageProcessingError struct {
	Path  string
	Stage string
	Cause error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("processing image %s (%s stage): %v; using the unmodified original", e.Path, e.Stage, e.Cause)
}

func (e *ImageProcessingError) Unwrap() error { return e.Cause }

// OrganizeError reports an unrecoverable filesystem failure while writing
// the final bundle. Partial output stays in the temporary workspace.
type OrganizeError struct {
	Dir   string
	Cause error
}

func (e *OrganizeError) Error() string {
	return fmt.Sprintf("organizing output under %s: %v (check directory permissions and free space)", e.Dir, e.Cause)
}

func (e *OrganizeError) Unwrap() error { return e.Cause }
