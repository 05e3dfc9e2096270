// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enhance runs kept images through a deterministic transform
// chain: conditional upscale, sharpen, contrast, saturation, denoise,
// lossless re-encode. A corrupt image falls back to a verbatim copy of
// the original; it never aborts the run.
package enhance

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-figures/pkg/types"
)

// Enhance applies the transform chain to one kept image, writing the
// result into outDir. The source file is never modified. Vector images
// pass through byte-for-byte. On a decode or encode failure the original
// is copied through unchanged and the error is returned alongside a
// usable EnhancedImage so callers can log and continue.
func Enhance(img types.ClassifiedImage, outDir string, cfg types.EnhanceConfig) (types.EnhancedImage, error) {
	if img.Format.Vector() {
		return passThrough(img, outDir)
	}

	src, err := imaging.Open(img.Path)
	if err != nil {
		return fallback(img, outDir, "decode", err)
	}

	result, upscaled := applyChain(src, cfg)

	stem := strings.TrimSuffix(filepath.Base(img.Path), filepath.Ext(img.Path))
	outPath := filepath.Join(outDir, stem+"_enhanced.png")
	if err := imaging.Save(result, outPath); err != nil {
		return fallback(img, outDir, "encode", err)
	}

	bounds := result.Bounds()
	return types.EnhancedImage{
		Source:      img,
		OutputPath:  outPath,
		FinalWidth:  bounds.Dx(),
		FinalHeight: bounds.Dy(),
		Upscaled:    upscaled,
	}, nil
}

// applyChain runs the fixed transform sequence. Each stage consumes the
// previous stage's output; the order is part of the contract.
func applyChain(src image.Image, cfg types.EnhanceConfig) (image.Image, bool) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	upscaled := false
	if cfg.SmallEdge > 0 && (w < cfg.SmallEdge || h < cfg.SmallEdge) {
		src = imaging.Resize(src, w*2, h*2, imaging.CatmullRom)
		upscaled = true
	}

	src = imaging.Sharpen(src, cfg.Sharpen)
	src = imaging.AdjustContrast(src, (cfg.Contrast-1)*100)
	src = imaging.AdjustSaturation(src, (cfg.Saturation-1)*100)
	if cfg.DenoiseSigma > 0 {
		src = imaging.Blur(src, cfg.DenoiseSigma)
	}
	return src, upscaled
}

// passThrough copies the original file into outDir unchanged, keeping
// its name. Used for vector images and as the corrupt-image fallback.
func passThrough(img types.ClassifiedImage, outDir string) (types.EnhancedImage, error) {
	outPath := filepath.Join(outDir, filepath.Base(img.Path))
	if err := copyFile(img.Path, outPath); err != nil {
		return types.EnhancedImage{}, fmt.Errorf("copying %s: %w", img.Path, err)
	}

	return types.EnhancedImage{
		Source:      img,
		OutputPath:  outPath,
		FinalWidth:  img.Width,
		FinalHeight: img.Height,
		Upscaled:    false,
	}, nil
}

// fallback copies the original through and reports the stage that broke.
// The returned EnhancedImage is usable; the error exists for logging.
func fallback(img types.ClassifiedImage, outDir, stage string, cause error) (types.EnhancedImage, error) {
	enhanced, copyErr := passThrough(img, outDir)
	if copyErr != nil {
		return types.EnhancedImage{}, copyErr
	}
	return enhanced, &types.ImageProcessingError{Path: img.Path, Stage: stage, Cause: cause}
}

// EnhanceAll processes kept images through a bounded worker pool. Results
// are written into an index-addressed slice, so output order always equals
// input order no matter which worker finishes first. Per-image failures
// are logged and recovered; cancelling ctx stops dispatching new work.
func EnhanceAll(ctx context.Context, imgs []types.ClassifiedImage, outDir string, cfg types.EnhanceConfig, logger zerolog.Logger) []types.EnhancedImage {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(imgs) {
		workers = len(imgs)
	}

	results := make([]types.EnhancedImage, len(imgs))
	dispatched := make([]bool, len(imgs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				dispatched[i] = true
				enhanced, err := Enhance(imgs[i], outDir, cfg)
				if err != nil {
					logger.Warn().Err(err).Str("image", imgs[i].Path).Msg("enhancement fell back to original")
				}
				results[i] = enhanced
			}
		}()
	}

dispatch:
	for i := range imgs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	// Drop slots never dispatched due to cancellation. A dispatched slot
	// with no output means even the fallback copy failed; that image is
	// lost from the bundle, which warrants more than a warning.
	out := results[:0]
	for i, r := range results {
		if r.OutputPath == "" {
			if dispatched[i] {
				logger.Error().Str("image", imgs[i].Path).Msg("image omitted from bundle: fallback copy failed")
			}
			continue
		}
		out = append(out, r)
	}
	return out
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
