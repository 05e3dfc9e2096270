package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-figures/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the PDF download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of retry attempts after the first failed
	// download (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryBaseDelay is the base backoff delay; it doubles per attempt
	// (default 2s).
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay"`

	// MetadataAPI is the arXiv query endpoint for bibliographic metadata.
	MetadataAPI string `json:"metadata_api" yaml:"metadata_api"`
}

// ExtractionConfig holds the quality settings passed to the extraction tool.
// The values are forwarded opaquely; the tool decides what they mean.
type ExtractionConfig struct {
	// Binary is the extraction tool command name (default "mineru").
	Binary string `json:"binary" yaml:"binary"`

	// RenderDPI is the page rendering resolution (default 1200).
	RenderDPI int `json:"render_dpi" yaml:"render_dpi"`

	// ImageDPI is the extracted-image resolution (default 1200).
	ImageDPI int `json:"image_dpi" yaml:"image_dpi"`

	// ImageQuality is the extraction quality percentage (default 100).
	ImageQuality int `json:"image_quality" yaml:"image_quality"`

	// KeepVector preserves vector graphics instead of rasterizing them
	// (default true).
	KeepVector bool `json:"keep_vector" yaml:"keep_vector"`

	// NoCompress disables output compression (default true).
	NoCompress bool `json:"no_compress" yaml:"no_compress"`

	// Lang is an OCR language hint (e.g. "en"); empty omits the flag.
	Lang string `json:"lang" yaml:"lang"`

	// Timeout bounds the subprocess run time; zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ClassifyConfig holds the content-vs-decorative policy knobs.
type ClassifyConfig struct {
	// MinByteSize is the exclusive lower bound for content images; assets
	// strictly below it are rejected as too small (default 5120).
	MinByteSize int64 `json:"min_byte_size" yaml:"min_byte_size"`

	// DecorativePatterns are regular expressions matched against the asset
	// filename, in order. A match rejects the asset as decorative. Empty
	// uses the built-in defaults; the extraction tool's naming conventions
	// drift across versions, so the set is deliberately replaceable.
	DecorativePatterns []string `json:"decorative_patterns,omitempty" yaml:"decorative_patterns,omitempty"`
}

// EnhanceConfig holds the enhancement chain parameters.
type EnhanceConfig struct {
	// SmallEdge is the dimension threshold for the conditional upscale;
	// images with either edge below it are resampled to 2x (default 1000).
	SmallEdge int `json:"small_edge" yaml:"small_edge"`

	// Sharpen is the unsharp intensity factor (default 1.3).
	Sharpen float64 `json:"sharpen" yaml:"sharpen"`

	// Contrast is the contrast scale factor (default 1.15).
	Contrast float64 `json:"contrast" yaml:"contrast"`

	// Saturation is the color saturation scale factor (default 1.05).
	Saturation float64 `json:"saturation" yaml:"saturation"`

	// DenoiseSigma is the mild smoothing radius (default 0.5).
	DenoiseSigma float64 `json:"denoise_sigma" yaml:"denoise_sigma"`

	// Workers bounds the enhancement worker pool (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// OutputConfig holds settings for the final bundle layout.
type OutputConfig struct {
	// Root is the base directory harvested papers are organized under.
	Root string `json:"root" yaml:"root"`

	// KeepTemp retains the per-paper temporary workspace after the run.
	KeepTemp bool `json:"keep_temp" yaml:"keep_temp"`

	// Force re-harvests papers already present in the index.
	Force bool `json:"force" yaml:"force"`
}

// PipelineConfig groups all stage configurations for one harvest run.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Classify   ClassifyConfig   `json:"classify" yaml:"classify"`
	Enhance    EnhanceConfig    `json:"enhance" yaml:"enhance"`
	Output     OutputConfig     `json:"output" yaml:"output"`
}

// DefaultPipelineConfig returns the config used when no flag or file
// overrides a setting. The extraction values mirror the tool's maximum
// quality mode.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   60 * time.Second,
				UserAgent: "paper-figures/0.1",
			},
			MaxRetries:     3,
			RetryBaseDelay: 2 * time.Second,
			MetadataAPI:    "https://export.arxiv.org/api/query",
		},
		Extraction: ExtractionConfig{
			Binary:       "mineru",
			RenderDPI:    1200,
			ImageDPI:     1200,
			ImageQuality: 100,
			KeepVector:   true,
			NoCompress:   true,
			Lang:         "en",
		},
		Classify: ClassifyConfig{
			MinByteSize: 5 * 1024,
		},
		Enhance: EnhanceConfig{
			SmallEdge:    1000,
			Sharpen:      1.3,
			Contrast:     1.15,
			Saturation:   1.05,
			DenoiseSigma: 0.5,
			Workers:      4,
		},
		Output: OutputConfig{
			Root: "output",
		},
	}
}
