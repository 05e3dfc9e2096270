// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package title

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/paper-figures/pkg/types"
)

func TestFromContent(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantText   string
		wantSource types.TitleSource
	}{
		{
			name:       "first level heading",
			content:    "# Offline Reinforcement Learning for LLM Multi-Step Reasoning\n\nBody text.",
			wantText:   "Offline Reinforcement Learning for LLM Multi-Step Reasoning",
			wantSource: types.SourceHeading,
		},
		{
			// Cascade order: the heading wins even when bold text exists.
			name:       "heading beats bold",
			content:    "# A Survey of Neural Rendering Methods\n\n**Another Candidate Title Entirely Here**",
			wantText:   "A Survey of Neural Rendering Methods",
			wantSource: types.SourceHeading,
		},
		{
			name:       "heading with emphasis markers stripped",
			content:    "# **Attention Is All You Need Again**",
			wantText:   "Attention Is All You Need Again",
			wantSource: types.SourceHeading,
		},
		{
			name:       "section heading skipped for real body title",
			content:    "# Abstract\n\nScaling Laws for Sparse Mixture Models\n\nWe present results.",
			wantText:   "Scaling Laws for Sparse Mixture Models",
			wantSource: types.SourceBodyLine,
		},
		{
			name:       "too short heading falls through",
			content:    "# Results\n\nRobust Estimation of Camera Pose from Sparse Features\n",
			wantText:   "Robust Estimation of Camera Pose from Sparse Features",
			wantSource: types.SourceBodyLine,
		},
		{
			name:       "body line with early colon skipped",
			content:    "Keywords: graphs, flows\nEfficient Maximum Flow Algorithms on Dynamic Graphs\n",
			wantText:   "Efficient Maximum Flow Algorithms on Dynamic Graphs",
			wantSource: types.SourceBodyLine,
		},
		{
			name:       "sentence with many periods skipped",
			content:    "We do X. Then we do Y. Then Z follows.\nAdaptive Quantization for Efficient Inference\n",
			wantText:   "Adaptive Quantization for Efficient Inference",
			wantSource: types.SourceBodyLine,
		},
		{
			name:       "bold text as last text strategy",
			content:    "a\nb\nc\n\n**Diffusion Models for Molecular Graph Generation**\n",
			wantText:   "Diffusion Models for Molecular Graph Generation",
			wantSource: types.SourceBoldText,
		},
		{
			name:       "bold figure caption skipped",
			content:    "x\ny\n**Figure 1: Overview of the proposed pipeline**\n**Contrastive Pretraining for Tabular Data**\n",
			wantText:   "Contrastive Pretraining for Tabular Data",
			wantSource: types.SourceBoldText,
		},
		{
			name:       "empty content",
			content:    "",
			wantSource: types.SourceFallbackID,
		},
		{
			name:       "whitespace only",
			content:    "  \n\t\n   \n",
			wantSource: types.SourceFallbackID,
		},
		{
			name:       "nothing title shaped",
			content:    "a\nb\nc\n1234\n",
			wantSource: types.SourceFallbackID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromContent(tt.content)
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestFromContent_HeadingBeyondScanWindow(t *testing.T) {
	var content string
	for i := 0; i < 60; i++ {
		content += "filler\n"
	}
	content += "# A Heading Far Too Deep in the Document\n"

	got := FromContent(content)
	if got.Source == types.SourceHeading {
		t.Errorf("heading beyond the scan window must not win, got %+v", got)
	}
}

func writeTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	empty := writeTranscript(t, dir, "empty.md", "\n\n")
	good := writeTranscript(t, dir, "paper.md", "# Neural Scene Graphs for Dynamic Scenes\n")

	// First transcript yields nothing; the second wins.
	got := Resolve([]string{empty, good}, "2412.15289")
	if got != "Neural Scene Graphs for Dynamic Scenes" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolve_FallsBackToID(t *testing.T) {
	dir := t.TempDir()
	empty := writeTranscript(t, dir, "empty.md", "   \n")
	missing := filepath.Join(dir, "does-not-exist.md")

	tests := []struct {
		name        string
		transcripts []string
	}{
		{"no transcripts", nil},
		{"empty transcript", []string{empty}},
		{"unreadable transcript", []string{missing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.transcripts, "2412.15289")
			if got != "2412.15289" {
				t.Errorf("Resolve = %q, want the fallback identifier", got)
			}
		})
	}
}
