package scratch

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"scratchbook/internal/errors"
	"scratchbook/internal/index"
)

// Search limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	MaxQueryLength     = index.MaxSearchQueryChars
	MaxSnippetChars    = 300
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query  string // required
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// SearchResultItem is one matching scratch file with a match snippet.
type SearchResultItem struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Ext       string `json:"ext"`
	Size      int64  `json:"size"`
	ModTime   int64  `json:"mtime"`
	Age       string `json:"age"`
	FirstLine string `json:"first_line"`
	// Snippet is HTML-safe: user-controlled content is escaped; only
	// <b>...</b> highlight tags are present.
	Snippet string `json:"snippet"`
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []SearchResultItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"` // "relevance"
}

// Search performs full-text search across indexed scratch files, ranked by
// relevance (BM25).
func Search(ix *index.Index, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryLength))
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	offset := max(input.Offset, 0)

	hits, total, err := ix.Search(query, limit, offset)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]SearchResultItem, len(hits))
	for i, h := range hits {
		snippet := escapeSnippetHTML(h.Snippet)
		snippet = truncateSnippet(snippet, MaxSnippetChars)
		items[i] = SearchResultItem{
			Path:      h.Path,
			Name:      h.Name,
			Ext:       h.Ext,
			Size:      h.Size,
			ModTime:   h.ModTime,
			Age:       RelativeAge(time.Unix(h.ModTime, 0), now),
			FirstLine: h.FirstLine,
			Snippet:   snippet,
		}
	}

	hasMore := offset+len(items) < total

	return &SearchOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "relevance",
	}, nil
}

// truncateSnippet truncates a snippet to approximately maxChars while
// preserving valid UTF-8, closing any open <b> tags, and preferring word
// boundaries when possible.
func truncateSnippet(s string, maxChars int) string {
	if maxChars <= 0 {
		return "..."
	}

	if len(s) <= maxChars {
		return s
	}

	truncateAt := maxChars
	for truncateAt > 0 && !utf8.RuneStart(s[truncateAt]) {
		truncateAt--
	}
	if truncateAt == 0 {
		return "..."
	}

	truncated := s[:truncateAt]

	// Trim any partial tag or entity suffix so the result stays valid
	// markup. The only tags present are <b> and </b>; user content may
	// contain entities from escaping (e.g. &lt;).
	if lastLT := strings.LastIndex(truncated, "<"); lastLT != -1 && !strings.Contains(truncated[lastLT:], ">") {
		truncated = truncated[:lastLT]
	}
	if lastAmp := strings.LastIndex(truncated, "&"); lastAmp != -1 && !strings.Contains(truncated[lastAmp:], ";") {
		truncated = truncated[:lastAmp]
	}

	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > truncateAt/2 {
		truncated = truncated[:lastSpace]
	}

	openTags := strings.Count(truncated, "<b>")
	closeTags := strings.Count(truncated, "</b>")
	for range openTags - closeTags {
		truncated += "</b>"
	}

	return truncated + "..."
}

// escapeSnippetHTML escapes user content in a snippet while preserving the
// [[[B]]] / [[[/B]]] highlight markers emitted by the index, converting
// them to <b> tags. This keeps scratch file content from injecting markup.
func escapeSnippetHTML(s string) string {
	const (
		openPlaceholder  = "\x00SB_B_OPEN\x00"
		closePlaceholder = "\x00SB_B_CLOSE\x00"
		openMarker       = "[[[B]]]"
		closeMarker      = "[[[/B]]]"
	)

	s = strings.ReplaceAll(s, openMarker, openPlaceholder)
	s = strings.ReplaceAll(s, closeMarker, closePlaceholder)

	s = html.EscapeString(s)

	s = strings.ReplaceAll(s, openPlaceholder, "<b>")
	s = strings.ReplaceAll(s, closePlaceholder, "</b>")

	return s
}
