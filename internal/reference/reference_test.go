// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"errors"
	"testing"

	"github.com/pdiddy/paper-figures/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr bool
	}{
		// Positive: bare identifiers.
		{"modern id", "2412.15289", "2412.15289", false},
		{"modern id with version", "2412.15289v2", "2412.15289v2", false},
		{"modern id arXiv prefix", "arXiv:2412.15289", "2412.15289", false},
		{"legacy id", "cs.AI/0601001", "cs.AI/0601001", false},
		{"legacy id no subclass", "hep-th/9901001", "hep-th/9901001", false},

		// Positive: the three URL shapes.
		{"abs URL", "https://arxiv.org/abs/2412.15289", "2412.15289", false},
		{"pdf URL", "https://arxiv.org/pdf/2412.15289", "2412.15289", false},
		{"pdf URL with suffix", "https://arxiv.org/pdf/2412.15289.pdf", "2412.15289", false},
		{"http scheme", "http://arxiv.org/abs/2412.15289", "2412.15289", false},
		{"abs URL trailing slash", "https://arxiv.org/abs/2412.15289/", "2412.15289", false},
		{"legacy abs URL", "https://arxiv.org/abs/cs.AI/0601001", "cs.AI/0601001", false},

		// Whitespace handling.
		{"surrounding whitespace", "  2412.15289  ", "2412.15289", false},

		// Negative.
		{"empty", "", "", true},
		{"random word", "hello", "", true},
		{"wrong host", "https://example.com/abs/2412.15289", "", true},
		{"doi", "10.1145/1234567.1234568", "", true},
		{"too few digits", "2412.123", "", true},
		{"listing URL", "https://arxiv.org/list/cs.AI/recent", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %+v", tt.input, ref)
				}
				var invalid *types.InvalidReferenceError
				if !errors.As(err, &invalid) {
					t.Errorf("Parse(%q) error = %v, want InvalidReferenceError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if ref.ID != tt.wantID {
				t.Errorf("Parse(%q) ID = %q, want %q", tt.input, ref.ID, tt.wantID)
			}
		})
	}
}

// All shapes of the same paper must normalize to the same reference.
func TestParseShapeIdempotence(t *testing.T) {
	shapes := []string{
		"2412.15289",
		"arXiv:2412.15289",
		"https://arxiv.org/abs/2412.15289",
		"https://arxiv.org/pdf/2412.15289",
		"https://arxiv.org/pdf/2412.15289.pdf",
	}
	for _, shape := range shapes {
		ref, err := Parse(shape)
		if err != nil {
			t.Fatalf("Parse(%q): %v", shape, err)
		}
		if ref.ID != "2412.15289" {
			t.Errorf("Parse(%q) ID = %q, want 2412.15289", shape, ref.ID)
		}
		if ref.PDFURL != "https://arxiv.org/pdf/2412.15289.pdf" {
			t.Errorf("Parse(%q) PDFURL = %q", shape, ref.PDFURL)
		}
		if ref.SourceURL != "https://arxiv.org/abs/2412.15289" {
			t.Errorf("Parse(%q) SourceURL = %q", shape, ref.SourceURL)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"2412.15289", "2412.15289"},
		{"2412.15289v2", "2412.15289v2"},
		{"cs.AI/0601001", "cs.AI-0601001"},
	}
	for _, tt := range tests {
		if got := Slug(tt.id); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
