// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-figures/pkg/types"
)

func testCfg() types.EnhanceConfig {
	return types.DefaultPipelineConfig().Enhance
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(3 * x), uint8(5 * y), uint8(x + y), 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func classified(path string, format types.ImageFormat, w, h int) types.ClassifiedImage {
	info, _ := os.Stat(path)
	var size int64
	if info != nil {
		size = info.Size()
	}
	return types.ClassifiedImage{
		RawImageAsset: types.RawImageAsset{
			Path: path, ByteSize: size, Width: w, Height: h, Format: format,
		},
		Keep:   true,
		Reason: types.ReasonContent,
	}
}

func TestEnhance_SmallImageUpscales(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "figure_1.png")
	writePNG(t, src, 60, 40)

	enhanced, err := Enhance(classified(src, types.FormatPNG, 60, 40), outDir, testCfg())
	require.NoError(t, err)

	assert.True(t, enhanced.Upscaled)
	assert.Equal(t, 120, enhanced.FinalWidth)
	assert.Equal(t, 80, enhanced.FinalHeight)
	assert.Equal(t, filepath.Join(outDir, "figure_1_enhanced.png"), enhanced.OutputPath)
	assert.FileExists(t, enhanced.OutputPath)

	// The source must be left untouched.
	info, err := os.Stat(src)
	require.NoError(t, err)
	assert.Equal(t, enhanced.Source.ByteSize, info.Size())
}

func TestEnhance_LargeImageSkipsUpscale(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "figure_2.png")
	writePNG(t, src, 1200, 1100)

	enhanced, err := Enhance(classified(src, types.FormatPNG, 1200, 1100), outDir, testCfg())
	require.NoError(t, err)

	assert.False(t, enhanced.Upscaled)
	assert.Equal(t, 1200, enhanced.FinalWidth)
	assert.Equal(t, 1100, enhanced.FinalHeight)
}

func TestEnhance_Deterministic(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "figure.png")
	writePNG(t, src, 64, 48)
	img := classified(src, types.FormatPNG, 64, 48)

	outA, outB := t.TempDir(), t.TempDir()
	a, err := Enhance(img, outA, testCfg())
	require.NoError(t, err)
	b, err := Enhance(img, outB, testCfg())
	require.NoError(t, err)

	dataA, err := os.ReadFile(a.OutputPath)
	require.NoError(t, err)
	dataB, err := os.ReadFile(b.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, dataA, dataB, "same input and config must produce identical bytes")
}

func TestEnhance_VectorPassThrough(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "diagram.svg")
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`)
	require.NoError(t, os.WriteFile(src, svg, 0o644))

	enhanced, err := Enhance(classified(src, types.FormatSVG, 0, 0), outDir, testCfg())
	require.NoError(t, err)

	assert.False(t, enhanced.Upscaled)
	assert.Equal(t, filepath.Join(outDir, "diagram.svg"), enhanced.OutputPath)
	data, err := os.ReadFile(enhanced.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, svg, data, "vector images must pass through byte-for-byte")
}

func TestEnhance_CorruptFallsBackToOriginal(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "broken.png")
	garbage := []byte("definitely not a png")
	require.NoError(t, os.WriteFile(src, garbage, 0o644))

	enhanced, err := Enhance(classified(src, types.FormatPNG, 0, 0), outDir, testCfg())
	require.Error(t, err)

	var procErr *types.ImageProcessingError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "decode", procErr.Stage)

	// Despite the error, the fallback copy is fully usable.
	assert.False(t, enhanced.Upscaled)
	data, readErr := os.ReadFile(enhanced.OutputPath)
	require.NoError(t, readErr)
	assert.Equal(t, garbage, data)
}

func TestEnhanceAll_OrderAndIsolation(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()

	var imgs []types.ClassifiedImage
	names := []string{"fig_a.png", "fig_b.png", "fig_c.png", "fig_d.png"}
	for i, name := range names {
		path := filepath.Join(srcDir, name)
		if name == "fig_c.png" {
			// One corrupt image among valid siblings.
			require.NoError(t, os.WriteFile(path, []byte("corrupt"), 0o644))
			imgs = append(imgs, classified(path, types.FormatPNG, 0, 0))
			continue
		}
		writePNG(t, path, 30+10*i, 30)
		imgs = append(imgs, classified(path, types.FormatPNG, 30+10*i, 30))
	}

	results := EnhanceAll(context.Background(), imgs, outDir, testCfg(), zerolog.Nop())
	require.Len(t, results, 4)

	// Output order equals input order regardless of worker completion order.
	for i, r := range results {
		assert.Equal(t, imgs[i].Path, r.Source.Path, "result %d out of order", i)
	}

	// The corrupt image is its unmodified original; siblings were enhanced.
	assert.Equal(t, filepath.Join(outDir, "fig_c.png"), results[2].OutputPath)
	for _, i := range []int{0, 1, 3} {
		assert.True(t, strings.HasSuffix(results[i].OutputPath, "_enhanced.png"),
			"sibling %d should be enhanced, got %s", i, results[i].OutputPath)
		assert.True(t, results[i].Upscaled)
	}
}

func TestEnhanceAll_SingleWorkerMatchesParallel(t *testing.T) {
	srcDir := t.TempDir()
	var imgs []types.ClassifiedImage
	for _, name := range []string{"x.png", "y.png"} {
		path := filepath.Join(srcDir, name)
		writePNG(t, path, 25, 25)
		imgs = append(imgs, classified(path, types.FormatPNG, 25, 25))
	}

	serialCfg := testCfg()
	serialCfg.Workers = 1
	parallelCfg := testCfg()
	parallelCfg.Workers = 8

	outSerial, outParallel := t.TempDir(), t.TempDir()
	serial := EnhanceAll(context.Background(), imgs, outSerial, serialCfg, zerolog.Nop())
	parallel := EnhanceAll(context.Background(), imgs, outParallel, parallelCfg, zerolog.Nop())

	require.Len(t, serial, len(parallel))
	for i := range serial {
		a, err := os.ReadFile(serial[i].OutputPath)
		require.NoError(t, err)
		b, err := os.ReadFile(parallel[i].OutputPath)
		require.NoError(t, err)
		assert.Equal(t, a, b, "parallelism must not change output bytes")
	}
}

func TestEnhanceAll_SurfacesLostImages(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "doomed.png")
	require.NoError(t, os.WriteFile(src, []byte("corrupt"), 0o644))

	// An output "directory" that is actually a file: enhancement and the
	// fallback copy both fail, so the image cannot reach the bundle.
	outDir := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(outDir, []byte("x"), 0o644))

	var logBuf strings.Builder
	logger := zerolog.New(&logBuf)

	imgs := []types.ClassifiedImage{classified(src, types.FormatPNG, 0, 0)}
	results := EnhanceAll(context.Background(), imgs, outDir, testCfg(), logger)

	assert.Empty(t, results)
	assert.Contains(t, logBuf.String(), "fallback copy failed")
	assert.Contains(t, logBuf.String(), "doomed.png")
}

func TestEnhanceAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srcDir := t.TempDir()
	path := filepath.Join(srcDir, "z.png")
	writePNG(t, path, 25, 25)
	imgs := []types.ClassifiedImage{classified(path, types.FormatPNG, 25, 25)}

	results := EnhanceAll(ctx, imgs, t.TempDir(), testCfg(), zerolog.Nop())
	assert.Empty(t, results)
}
