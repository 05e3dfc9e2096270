// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract invokes the external document-extraction tool and
// surfaces whatever images and transcripts it produced. The tool's
// PDF parsing is opaque; nothing here interprets image content.
package extract

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pdiddy/paper-figures/pkg/types"
)

// Result is everything the extraction tool produced that downstream
// stages care about: image assets in lexical order and the paths of any
// markdown transcripts.
type Result struct {
	Images      []types.RawImageAsset
	Transcripts []string
}

// Backend runs one extraction. The concrete backend shells out to the
// external tool; tests substitute a double returning fixed fixtures.
type Backend interface {
	// Extract parses the PDF at pdfPath into outDir and reports the
	// produced assets. An empty Result is not an error; some papers
	// simply contain no extractable images.
	Extract(ctx context.Context, pdfPath, outDir string, cfg types.ExtractionConfig) (Result, error)
}

// imageExtensions maps recognized file extensions to their format.
var imageExtensions = map[string]types.ImageFormat{
	".png":  types.FormatPNG,
	".jpg":  types.FormatJPEG,
	".jpeg": types.FormatJPEG,
	".gif":  types.FormatGIF,
	".svg":  types.FormatSVG,
}

// scanOutput walks the tool's output tree and collects image assets and
// markdown transcripts. The tool nests its image directory differently
// across versions, so the known layouts are tried first and a full walk
// is the fallback.
func scanOutput(outDir, pdfStem string) (Result, error) {
	var result Result

	imagesDir := findImagesDir(outDir, pdfStem)
	if imagesDir != "" {
		entries, err := os.ReadDir(imagesDir)
		if err != nil {
			return Result{}, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			format, ok := imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))]
			if !ok {
				continue
			}
			path := filepath.Join(imagesDir, entry.Name())
			info, err := entry.Info()
			if err != nil {
				continue
			}
			asset := types.RawImageAsset{
				Path:     path,
				ByteSize: info.Size(),
				Format:   format,
			}
			if !format.Vector() {
				asset.Width, asset.Height = probeDimensions(path)
			}
			result.Images = append(result.Images, asset)
		}
	}

	err := filepath.WalkDir(outDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			result.Transcripts = append(result.Transcripts, path)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	sort.Strings(result.Transcripts)

	return result, nil
}

// findImagesDir locates the image directory among the layouts the tool is
// known to produce, falling back to a walk for a directory named "images".
func findImagesDir(outDir, pdfStem string) string {
	candidates := []string{
		filepath.Join(outDir, pdfStem, "auto", "images"),
		filepath.Join(outDir, pdfStem, "images"),
		filepath.Join(outDir, "auto", "images"),
		filepath.Join(outDir, "images"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}

	var found string
	filepath.WalkDir(outDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == "images" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// probeDimensions decodes only the image header. Undecodable rasters
// report zero dimensions; classification still sees their byte size.
func probeDimensions(path string) (w, h int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
