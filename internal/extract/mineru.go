// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-figures/pkg/types"
)

// mineruRemediation tells the user how to make the tool available.
const mineruRemediation = `install MinerU with 'pip install "mineru[core]"' and make sure the command is on PATH`

// executor abstracts command lookup and execution so tests never spawn
// real subprocesses.
type executor interface {
	LookPath(file string) (string, error)
	// Run returns the command's combined stdout+stderr for diagnostics.
	Run(ctx context.Context, name string, args ...string) (output string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()
	return output.String(), err
}

// MineruBackend extracts images and markdown by shelling out to the
// MinerU CLI with maximum-quality rendering settings.
type MineruBackend struct {
	exec executor
}

// NewMineruBackend returns the production backend.
func NewMineruBackend() *MineruBackend {
	return &MineruBackend{exec: &osExecutor{}}
}

// Extract runs the tool against pdfPath, writing into outDir, then scans
// the output tree. A missing binary or a non-zero exit surfaces as an
// ExtractionError naming the tool and the remediation.
func (b *MineruBackend) Extract(ctx context.Context, pdfPath, outDir string, cfg types.ExtractionConfig) (Result, error) {
	bin := cfg.Binary
	if bin == "" {
		bin = "mineru"
	}

	if _, err := b.exec.LookPath(bin); err != nil {
		return Result{}, &types.ExtractionError{
			Tool:        bin,
			Remediation: mineruRemediation,
			Cause:       fmt.Errorf("not found on PATH: %w", err),
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, &types.ExtractionError{
			Tool:        bin,
			Remediation: "check permissions on the output directory",
			Cause:       err,
		}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	output, err := b.exec.Run(ctx, bin, buildArgs(pdfPath, outDir, cfg)...)
	if err != nil {
		return Result{}, &types.ExtractionError{
			Tool:        bin,
			Remediation: mineruRemediation,
			Cause:       fmt.Errorf("%w: %s", err, tail(output, 500)),
		}
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	result, scanErr := scanOutput(outDir, stem)
	if scanErr != nil {
		return Result{}, &types.ExtractionError{
			Tool:        bin,
			Remediation: "inspect the extraction output directory",
			Cause:       scanErr,
		}
	}
	return result, nil
}

// buildArgs assembles the CLI invocation. The quality settings are passed
// through opaquely; MinerU decides what they mean.
func buildArgs(pdfPath, outDir string, cfg types.ExtractionConfig) []string {
	args := []string{
		"-p", pdfPath,
		"-o", outDir,
		"-m", "auto",
		"--render-dpi", strconv.Itoa(cfg.RenderDPI),
		"--image-dpi", strconv.Itoa(cfg.ImageDPI),
		"--image-quality", strconv.Itoa(cfg.ImageQuality),
	}
	if cfg.KeepVector {
		args = append(args, "--keep-vector")
	}
	if cfg.NoCompress {
		args = append(args, "--no-compress")
	}
	if cfg.Lang != "" {
		args = append(args, "--lang", cfg.Lang)
	}
	return args
}

// tail returns at most n trailing bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
