// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/paper-figures/pkg/types"
)

// defaultMetadataAPI is used when FetchConfig leaves the endpoint unset.
const defaultMetadataAPI = "https://export.arxiv.org/api/query"

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// Metadata retrieves title, authors, abstract, and publication date for the
// paper from the arXiv API. Callers treat failures as warnings; the harvest
// proceeds without metadata.
func Metadata(ctx context.Context, client *http.Client, id string, cfg types.FetchConfig) (types.PaperMetadata, error) {
	base := cfg.MetadataAPI
	if base == "" {
		base = defaultMetadataAPI
	}
	apiURL := fmt.Sprintf("%s?id_list=%s", base, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PaperMetadata{}, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("parsing arXiv response: %w", err)
	}

	if len(feed.Entries) == 0 {
		return types.PaperMetadata{}, fmt.Errorf("no entries found for arXiv ID %s", id)
	}

	entry := feed.Entries[0]
	meta := types.PaperMetadata{
		Title:    strings.Join(strings.Fields(entry.Title), " "),
		Abstract: strings.TrimSpace(entry.Summary),
	}
	for _, a := range entry.Authors {
		meta.Authors = append(meta.Authors, strings.TrimSpace(a.Name))
	}
	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		meta.Published = t
	}
	return meta, nil
}
