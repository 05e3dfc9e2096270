// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title infers a human-readable paper title from extraction
// transcripts. Strategies run in a fixed priority order until one
// produces a candidate; the paper identifier is the final fallback.
package title

import (
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-figures/pkg/types"
)

const (
	// headingScanLines bounds how deep into the transcript the heading
	// strategy looks.
	headingScanLines = 50

	// bodyScanLines bounds the title-shaped-line strategy.
	bodyScanLines = 20

	// boldScanBytes bounds the bold-text strategy.
	boldScanBytes = 2000

	minTitleLen = 10
	maxTitleLen = 200
)

// skipWords disqualify a candidate that is a section label rather than a
// title.
var skipWords = []string{"abstract", "introduction", "content", "table", "figure"}

var (
	boldPattern     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emphasisMarkers = strings.NewReplacer("**", "", "*", "", "_", "", "`", "")
)

// strategy is one cascade stage: it inspects the transcript and returns a
// candidate, or empty text to let the next stage try.
type strategy struct {
	source types.TitleSource
	find   func(content string) string
}

// cascade lists the strategies in priority order. A first-level heading
// always beats a body line, which always beats bold text.
var cascade = []strategy{
	{types.SourceHeading, findHeading},
	{types.SourceBodyLine, findBodyLine},
	{types.SourceBoldText, findBoldText},
}

// Resolve reads each transcript in order and returns the first title the
// cascade produces, cleaned for display. It never returns an empty or
// whitespace-only string: when every strategy comes up empty the result
// is exactly fallbackID.
func Resolve(transcripts []string, fallbackID string) string {
	for _, path := range transcripts {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if c := FromContent(string(data)); c.Source != types.SourceFallbackID {
			return c.Text
		}
	}
	return fallbackID
}

// FromContent runs the cascade over one transcript's content. The
// fallback stage is represented by a candidate with empty text and
// SourceFallbackID; Resolve substitutes the identifier.
func FromContent(content string) types.TitleCandidate {
	for rank, s := range cascade {
		if text := clean(s.find(content)); text != "" {
			return types.TitleCandidate{Text: text, Source: s.source, Rank: rank}
		}
	}
	return types.TitleCandidate{Source: types.SourceFallbackID, Rank: len(cascade)}
}

// findHeading returns the first plausible "# " heading near the top of
// the document.
func findHeading(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > headingScanLines {
		lines = lines[:headingScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		text := strings.TrimSpace(line[2:])
		if len(text) > minTitleLen && len(text) < maxTitleLen && !containsSkipWord(text) {
			return text
		}
	}
	return ""
}

// findBodyLine returns the first title-shaped plain line near the top:
// plausible length, contains an uppercase letter, no early colon (label
// lines like "Abstract:"), and few periods (sentences).
func findBodyLine(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > bodyScanLines {
		lines = lines[:bodyScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "*") {
			continue
		}
		if len(line) <= 20 || len(line) >= maxTitleLen {
			continue
		}
		if !strings.ContainsFunc(line, unicode.IsUpper) {
			continue
		}
		if head := line[:min(20, len(line))]; strings.Contains(head, ":") {
			continue
		}
		if strings.Count(line, ".") >= 3 {
			continue
		}
		return line
	}
	return ""
}

// findBoldText returns the first plausible bold span near the top of the
// document.
func findBoldText(content string) string {
	if len(content) > boldScanBytes {
		content = content[:boldScanBytes]
	}
	for _, m := range boldPattern.FindAllStringSubmatch(content, -1) {
		text := strings.TrimSpace(m[1])
		if len(text) > 20 && len(text) < maxTitleLen && !containsSkipWordShort(text) {
			return text
		}
	}
	return ""
}

func containsSkipWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range skipWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// The bold strategy uses a shorter skip list: bold section labels are
// mostly figure and table captions.
func containsSkipWordShort(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range []string{"abstract", "figure", "table"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// clean trims whitespace and strips markdown emphasis markers from a
// winning candidate.
func clean(text string) string {
	return strings.TrimSpace(emphasisMarkers.Replace(text))
}
