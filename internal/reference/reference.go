// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference parses arXiv identifiers and URLs into normalized
// paper references.
package reference

import (
	"regexp"
	"strings"

	"github.com/pdiddy/paper-figures/pkg/types"
)

// Base URLs for reference resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	absBase = "https://arxiv.org/abs/"
	pdfBase = "https://arxiv.org/pdf/"
)

// idGrammar matches the two arXiv identifier grammars: modern numeric
// ("2412.15289", optional "v2" suffix) and legacy category/number
// ("cs.AI/0601001").
const idGrammar = `(?:\d{4}\.\d{4,5}(?:v\d+)?|[a-z-]+(?:\.[A-Z]{2})?/\d{7}(?:v\d+)?)`

var (
	// barePattern matches bare IDs: "2412.15289", "arXiv:2412.15289v2".
	barePattern = regexp.MustCompile(`^(?:arXiv:)?(` + idGrammar + `)$`)

	// absPattern matches abstract-page URLs.
	absPattern = regexp.MustCompile(`^https?://arxiv\.org/abs/(` + idGrammar + `)/?$`)

	// pdfPattern matches PDF URLs, with or without the ".pdf" suffix.
	pdfPattern = regexp.MustCompile(`^https?://arxiv\.org/pdf/(` + idGrammar + `)(?:\.pdf)?$`)
)

// Parse normalizes an arXiv reference. It accepts bare identifiers
// (optionally prefixed with "arXiv:") and the abs/pdf URL shapes; all
// shapes of the same paper yield an identical normalized ID.
func Parse(input string) (types.PaperReference, error) {
	input = strings.TrimSpace(input)

	for _, p := range []*regexp.Regexp{barePattern, absPattern, pdfPattern} {
		if m := p.FindStringSubmatch(input); m != nil {
			id := m[1]
			return types.PaperReference{
				ID:        id,
				SourceURL: absBase + id,
				PDFURL:    pdfBase + id + ".pdf",
			}, nil
		}
	}

	return types.PaperReference{}, &types.InvalidReferenceError{Input: input}
}

// Slug returns a filesystem-safe filename stem for the normalized ID.
// Only the legacy grammar contains a path separator.
func Slug(id string) string {
	return strings.ReplaceAll(id, "/", "-")
}
