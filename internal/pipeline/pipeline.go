// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the harvest stages together: parse, fetch,
// extract, classify, enhance, resolve title, organize, index.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-figures/internal/classify"
	"github.com/pdiddy/paper-figures/internal/enhance"
	"github.com/pdiddy/paper-figures/internal/extract"
	"github.com/pdiddy/paper-figures/internal/fetch"
	"github.com/pdiddy/paper-figures/internal/organize"
	"github.com/pdiddy/paper-figures/internal/reference"
	"github.com/pdiddy/paper-figures/internal/store"
	"github.com/pdiddy/paper-figures/internal/title"
	"github.com/pdiddy/paper-figures/pkg/types"
)

// Deps are the collaborators a run needs. Tests inject doubles; the CLI
// injects the MinerU backend and a real HTTP client.
type Deps struct {
	Backend extract.Backend
	Client  *http.Client

	// Index is optional; without it no skip check or recording happens.
	Index *store.Store

	Logger zerolog.Logger
}

// Report summarizes one paper's harvest.
type Report struct {
	Ref     types.PaperReference
	Bundle  types.OutputBundle
	Kept    int
	Dropped int
	Skipped bool
}

// BatchResult holds the outcome of a batch harvest run.
type BatchResult struct {
	Harvested int
	Skipped   int
	Failed    int
}

// Total returns the total number of references processed.
func (r BatchResult) Total() int {
	return r.Harvested + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run harvests a single paper. The per-paper temporary workspace lives
// under <root>/.tmp/<id>/ and is removed on every exit path unless
// KeepTemp is set; final output appears under the root only after the
// whole pipeline succeeds.
func Run(ctx context.Context, input string, cfg types.PipelineConfig, deps Deps, w io.Writer) (Report, error) {
	ref, err := reference.Parse(input)
	if err != nil {
		return Report{}, err
	}
	logger := deps.Logger.With().Str("paper", ref.ID).Logger()

	if deps.Index != nil && !cfg.Output.Force {
		rec, found, err := deps.Index.Lookup(ref.ID)
		if err != nil {
			logger.Warn().Err(err).Msg("index lookup failed; harvesting anyway")
		} else if found {
			fmt.Fprintf(w, "skipped: %s (already harvested to %s)\n", ref.ID, rec.OutputDir)
			return Report{Ref: ref, Skipped: true}, nil
		}
	}

	tmpRoot := filepath.Join(cfg.Output.Root, ".tmp")
	tmpDir := filepath.Join(tmpRoot, reference.Slug(ref.ID))
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("creating workspace %s: %w", tmpDir, err)
	}
	defer func() {
		if cfg.Output.KeepTemp {
			logger.Info().Str("dir", tmpDir).Msg("keeping temporary workspace")
			return
		}
		if err := os.RemoveAll(tmpDir); err != nil {
			logger.Warn().Err(err).Str("dir", tmpDir).Msg("workspace cleanup failed")
		}
		// Remove the shared .tmp parent too; fails harmlessly while a
		// concurrent harvest still has a workspace inside it.
		os.Remove(tmpRoot)
	}()

	fmt.Fprintf(w, "downloading: %s\n", ref.PDFURL)
	pdfPath, err := fetch.Fetch(ctx, deps.Client, ref, tmpDir, cfg.Fetch)
	if err != nil {
		return Report{}, err
	}

	meta, err := fetch.Metadata(ctx, deps.Client, ref.ID, cfg.Fetch)
	if err != nil {
		logger.Warn().Err(err).Msg("arXiv metadata fetch failed; continuing without it")
	}

	fmt.Fprintf(w, "extracting:  %s\n", ref.ID)
	result, err := deps.Backend.Extract(ctx, pdfPath, filepath.Join(tmpDir, "extract"), cfg.Extraction)
	if err != nil {
		return Report{}, err
	}

	classifier, err := classify.New(cfg.Classify)
	if err != nil {
		return Report{}, fmt.Errorf("compiling classifier rules: %w", err)
	}
	classified := classifier.ClassifyAll(result.Images)

	var kept []types.ClassifiedImage
	for _, c := range classified {
		if c.Keep {
			kept = append(kept, c)
		} else {
			logger.Debug().Str("image", c.Path).Str("reason", string(c.Reason)).Msg("dropped")
		}
	}
	fmt.Fprintf(w, "classified:  %d content, %d dropped\n", len(kept), len(classified)-len(kept))

	enhanceDir := filepath.Join(tmpDir, "enhanced")
	if err := os.MkdirAll(enhanceDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("creating %s: %w", enhanceDir, err)
	}
	enhanced := enhance.EnhanceAll(ctx, kept, enhanceDir, cfg.Enhance, logger)
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	resolved := title.Resolve(result.Transcripts, ref.ID)
	logger.Info().Str("title", resolved).Msg("title resolved")

	bundle, err := organize.Organize(ref, resolved, pdfPath, enhanced, meta, cfg.Output)
	if err != nil {
		return Report{}, err
	}

	if deps.Index != nil {
		if err := deps.Index.Put(store.FromBundle(ref, bundle)); err != nil {
			logger.Warn().Err(err).Msg("recording harvest in index failed")
		}
	}

	fmt.Fprintf(w, "harvested:   %s (%d images) -> %s\n", ref.ID, len(bundle.ImagePaths), bundle.Dir)
	return Report{
		Ref:     ref,
		Bundle:  bundle,
		Kept:    len(kept),
		Dropped: len(classified) - len(kept),
	}, nil
}

// RunBatch harvests multiple references, continuing past individual
// failures, and prints a summary. A failed paper never aborts the batch.
func RunBatch(ctx context.Context, inputs []string, cfg types.PipelineConfig, deps Deps, w io.Writer) BatchResult {
	var result BatchResult
	for _, input := range inputs {
		report, err := Run(ctx, input, cfg, deps, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", input, err)
			result.Failed++
			continue
		}
		if report.Skipped {
			result.Skipped++
		} else {
			result.Harvested++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d harvested, %d skipped, %d failed (total: %d)\n",
		result.Harvested, result.Skipped, result.Failed, result.Total())
	return result
}
