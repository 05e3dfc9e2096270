// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PaperReference identifies an arXiv paper and where to fetch it.
// Immutable once parsed; the identifier is the normalized arXiv ID
// (e.g. "2412.15289" or "cs.AI/0601001").
type PaperReference struct {
	// ID is the normalized arXiv identifier.
	ID string `json:"id" yaml:"id"`

	// SourceURL is the abstract page for the paper.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFURL is the direct PDF download URL.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`
}

// ImageFormat identifies the on-disk encoding of an extracted image.
type ImageFormat string

const (
	FormatPNG   ImageFormat = "png"
	FormatJPEG  ImageFormat = "jpeg"
	FormatGIF   ImageFormat = "gif"
	FormatSVG   ImageFormat = "svg"
	FormatOther ImageFormat = "other"
)

// Vector reports whether the format is a vector format that enhancement
// must pass through unmodified.
func (f ImageFormat) Vector() bool {
	return f == FormatSVG
}

// RawImageAsset describes one image file produced by the extraction tool.
// Read-only to everything downstream of the extraction adapter.
type RawImageAsset struct {
	// Path is the file location inside the extraction output tree.
	Path string `json:"path" yaml:"path"`

	// ByteSize is the file size in bytes.
	ByteSize int64 `json:"byte_size" yaml:"byte_size"`

	// Width and Height are the pixel dimensions. Zero for vector formats
	// and for rasters that could not be decoded.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// Format is the detected image format.
	Format ImageFormat `json:"format" yaml:"format"`
}

// RejectReason explains a classification decision.
type RejectReason string

const (
	// ReasonTooSmall marks assets below the minimum byte size.
	ReasonTooSmall RejectReason = "too_small"

	// ReasonDecorative marks assets whose filename matches a
	// decorative-pattern rule (headers, footers, logos).
	ReasonDecorative RejectReason = "decorative_pattern"

	// ReasonContent marks assets kept as paper content.
	ReasonContent RejectReason = "content"
)

// ClassifiedImage is a raw asset plus the keep/drop decision.
type ClassifiedImage struct {
	RawImageAsset `yaml:",inline"`

	// Keep reports whether the asset survives into enhancement.
	Keep bool `json:"keep" yaml:"keep"`

	// Reason records which rule decided.
	Reason RejectReason `json:"reason" yaml:"reason"`
}

// EnhancedImage is the result of running one kept image through the
// enhancement chain. One per kept ClassifiedImage.
type EnhancedImage struct {
	// Source is the classified image the enhancement started from.
	Source ClassifiedImage `json:"source" yaml:"source"`

	// OutputPath is where the enhanced (or fallback-copied) file was written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// FinalWidth and FinalHeight are the output pixel dimensions.
	FinalWidth  int `json:"final_width" yaml:"final_width"`
	FinalHeight int `json:"final_height" yaml:"final_height"`

	// Upscaled reports whether the conditional upscale stage ran.
	Upscaled bool `json:"upscaled" yaml:"upscaled"`
}

// TitleSource identifies which cascade strategy produced a candidate.
type TitleSource string

const (
	SourceHeading    TitleSource = "markdown_heading"
	SourceBodyLine   TitleSource = "body_pattern"
	SourceBoldText   TitleSource = "bold_text"
	SourceFallbackID TitleSource = "fallback_id"
)

// TitleCandidate is one possible paper title with its provenance.
type TitleCandidate struct {
	// Text is the candidate title, trimmed and stripped of markup.
	Text string `json:"text" yaml:"text"`

	// Source is the strategy that produced it.
	Source TitleSource `json:"source" yaml:"source"`

	// Rank is the strategy priority (lower wins).
	Rank int `json:"rank" yaml:"rank"`
}

// PaperMetadata holds best-effort bibliographic metadata from the arXiv API.
// Any field may be empty; metadata failures never abort a harvest.
type PaperMetadata struct {
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Authors   []string  `json:"authors,omitempty" yaml:"authors,omitempty"`
	Abstract  string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`
}

// OutputBundle is the terminal artifact of a harvest: the destination
// directory with the PDF and enhanced images inside it.
type OutputBundle struct {
	// Title is the sanitized directory-safe title.
	Title string `json:"title" yaml:"title"`

	// Dir is the destination directory.
	Dir string `json:"dir" yaml:"dir"`

	// PDFPath is the final PDF location inside Dir.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// ImagePaths lists the final image locations, in extraction order.
	ImagePaths []string `json:"image_paths" yaml:"image_paths"`
}
