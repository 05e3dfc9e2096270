// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package organize lays out the final bundle: a directory named after the
// resolved title containing the PDF, the enhanced images, and a metadata
// manifest.
package organize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-figures/pkg/types"
)

const (
	// maxTitleRunes caps the sanitized directory name length.
	maxTitleRunes = 120

	manifestFile = "metadata.yaml"
)

var (
	unsafeRunes  = regexp.MustCompile(`[^\w\-.]+`)
	collapseRuns = regexp.MustCompile(`_+`)
)

// SanitizeTitle turns a resolved title into a safe directory name:
// filesystem-unsafe characters become underscores, runs collapse, edges
// are trimmed, and the result is truncated. A title that sanitizes to
// nothing falls back to the given identifier.
func SanitizeTitle(title, fallback string) string {
	s := unsafeRunes.ReplaceAllString(strings.TrimSpace(title), "_")
	s = collapseRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._-")

	if runes := []rune(s); len(runes) > maxTitleRunes {
		s = strings.Trim(string(runes[:maxTitleRunes]), "._-")
	}
	if s == "" {
		return fallback
	}
	return s
}

// manifest is the YAML record written next to the bundle contents.
type manifest struct {
	ID          string              `yaml:"id"`
	SourceURL   string              `yaml:"source_url"`
	Title       string              `yaml:"title"`
	Metadata    types.PaperMetadata `yaml:"metadata,omitempty"`
	ImageCount  int                 `yaml:"image_count"`
	HarvestedAt string              `yaml:"harvested_at"`
}

// Organize creates <root>/<title>/, copies the PDF and the enhanced
// images into it in order, and writes the manifest. Creating the
// directory is idempotent. Filesystem failures surface as OrganizeError;
// partial output stays behind in the temp workspace for inspection.
func Organize(ref types.PaperReference, title, pdfPath string, images []types.EnhancedImage, meta types.PaperMetadata, cfg types.OutputConfig) (types.OutputBundle, error) {
	safe := SanitizeTitle(title, SanitizeTitle(ref.ID, "paper"))
	dir := filepath.Join(cfg.Root, safe)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.OutputBundle{}, &types.OrganizeError{Dir: dir, Cause: err}
	}

	destPDF := filepath.Join(dir, safe+".pdf")
	if err := copyFile(pdfPath, destPDF); err != nil {
		return types.OutputBundle{}, &types.OrganizeError{Dir: dir, Cause: fmt.Errorf("copying PDF: %w", err)}
	}

	bundle := types.OutputBundle{
		Title:   safe,
		Dir:     dir,
		PDFPath: destPDF,
	}
	for _, img := range images {
		dest := filepath.Join(dir, filepath.Base(img.OutputPath))
		if err := copyFile(img.OutputPath, dest); err != nil {
			return types.OutputBundle{}, &types.OrganizeError{Dir: dir, Cause: fmt.Errorf("copying image %s: %w", img.OutputPath, err)}
		}
		bundle.ImagePaths = append(bundle.ImagePaths, dest)
	}

	m := manifest{
		ID:          ref.ID,
		SourceURL:   ref.SourceURL,
		Title:       title,
		Metadata:    meta,
		ImageCount:  len(bundle.ImagePaths),
		HarvestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return types.OutputBundle{}, &types.OrganizeError{Dir: dir, Cause: fmt.Errorf("marshaling manifest: %w", err)}
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return types.OutputBundle{}, &types.OrganizeError{Dir: dir, Cause: fmt.Errorf("writing manifest: %w", err)}
	}

	return bundle, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
