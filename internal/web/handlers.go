package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scratchbook/internal/config"
	"scratchbook/internal/errors"
	"scratchbook/internal/index"
	"scratchbook/internal/scratch"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	settings *config.Settings
	ix       *index.Index // nil when the index is disabled
	renderer *Renderer
}

// HandleList handles GET /files — browse saved scratch files, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	if limit <= 0 {
		limit = 50
	}
	offset := max(parseIntParam(r, "offset", 0), 0)

	entries, err := scratch.List(h.settings.ScratchbookFolder)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	total := len(entries)
	page := entries[min(offset, total):min(offset+limit, total)]

	now := time.Now()
	items := make([]ListEntry, len(page))
	for i, e := range page {
		items[i] = ListEntry{
			Path:    e.Path,
			Name:    e.Name,
			Size:    humanSize(e.Size),
			Age:     scratch.RelativeAge(e.ModTime, now),
			Preview: scratch.Preview(e.Path),
		}
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Scratch Files",
			Version: h.renderer.version,
			Nav:     "files",
		},
		Items: items,
		Pagination: scratch.Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	})
}

// HandleSearch handles GET /files/search — full-text search.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	data := SearchPageData{
		PageData: PageData{
			Title:   "Search",
			Version: h.renderer.version,
			Nav:     "search",
		},
		Query:    query,
		HasQuery: query != "",
	}

	if query == "" {
		// If htmx targets #results (user cleared the search box), return just the results fragment
		if r.Header.Get("HX-Target") == "results" {
			h.renderer.renderBlock(w, http.StatusOK, "search", "search-results", data)
			return
		}
		h.renderer.renderPage(w, r, "search", data)
		return
	}

	if h.ix == nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("search index is disabled"))
		return
	}

	result, err := scratch.Search(h.ix, scratch.SearchInput{
		Query:  query,
		Limit:  parseIntParam(r, "limit", 20),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data.Items = result.Items
	data.Pagination = result.Pagination

	// If htmx targets #results, render only the results fragment
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "search", "search-results", data)
		return
	}

	h.renderer.renderPage(w, r, "search", data)
}

// HandleView handles GET /files/view?path=... — view a single scratch file.
// The path is carried in the query string because scratch paths contain
// separators; only paths inside the scratchbook folder are served.
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("path is required"))
		return
	}
	path = filepath.Clean(path)
	if !scratch.UnderRoot(h.settings.ScratchbookFolder, path) {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("path is outside the scratchbook folder"))
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		h.renderer.renderError(w, r, errors.NewNotFound(path))
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewNotFound(path))
		return
	}

	name := filepath.Base(path)

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"path":    path,
			"name":    name,
			"size":    info.Size(),
			"mtime":   info.ModTime().Unix(),
			"content": string(data),
		})
		return
	}

	h.renderer.renderPage(w, r, "view", ViewPageData{
		PageData: PageData{
			Title:   name,
			Version: h.renderer.version,
			Nav:     "files",
		},
		Path:         path,
		Name:         name,
		Size:         humanSize(info.Size()),
		ModTime:      info.ModTime().Unix(),
		Age:          scratch.RelativeAge(info.ModTime(), time.Now()),
		RenderedHTML: renderContent(name, string(data)),
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
