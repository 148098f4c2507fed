package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"scratchbook/internal/config"
	"scratchbook/internal/errors"
	"scratchbook/internal/index"
	"scratchbook/internal/scratch"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	settings *config.Settings
	ix       *index.Index // nil when the index is disabled
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(settings *config.Settings, ix *index.Index) *Handlers {
	return &Handlers{settings: settings, ix: ix}
}

// Request types for each tool

// SaveRequest represents the arguments for scratch_save.
type SaveRequest struct {
	Content string `json:"content"`
}

// ListRequest represents the arguments for scratch_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// SearchRequest represents the arguments for scratch_search.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// ReadRequest represents the arguments for scratch_read.
type ReadRequest struct {
	Path string `json:"path"`
}

// Response types

// SaveResult is the scratch_save response.
type SaveResult struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Ext  string `json:"ext"`
	Size int64  `json:"size"`
}

// ListItem is one entry in the scratch_list response.
type ListItem struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mtime"`
	Age     string `json:"age"`
	Preview string `json:"preview"`
}

// ListResult is the scratch_list response.
type ListResult struct {
	Items      []ListItem         `json:"items"`
	Pagination scratch.Pagination `json:"pagination"`
}

// ReadResult is the scratch_read response.
type ReadResult struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mtime"`
	Content string `json:"content"`
}

// ReindexResult is the scratch_reindex response.
type ReindexResult struct {
	Indexed int `json:"indexed"`
}

// Handler implementations

// HandleSave handles the scratch_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	path, err := scratch.SaveNew(input.Content, h.settings, h.ix)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(SaveResult{
		Path: path,
		Name: filepath.Base(path),
		Ext:  filepath.Ext(path),
		Size: int64(len(input.Content)),
	})
}

// HandleList handles the scratch_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = scratch.DefaultSearchLimit
	}
	if limit > scratch.MaxSearchLimit {
		limit = scratch.MaxSearchLimit
	}
	offset := max(input.Offset, 0)

	entries, err := scratch.List(h.settings.ScratchbookFolder)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	total := len(entries)
	page := entries[min(offset, total):min(offset+limit, total)]

	now := time.Now()
	items := make([]ListItem, len(page))
	for i, e := range page {
		items[i] = ListItem{
			Path:    e.Path,
			Name:    e.Name,
			Size:    e.Size,
			ModTime: e.ModTime.Unix(),
			Age:     scratch.RelativeAge(e.ModTime, now),
			Preview: scratch.Preview(e.Path),
		}
	}

	return successResult(ListResult{
		Items: items,
		Pagination: scratch.Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	})
}

// HandleSearch handles the scratch_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if h.ix == nil {
		return errorResult(errors.NewInvalidRequest("search index is disabled")), nil
	}

	result, err := scratch.Search(h.ix, scratch.SearchInput{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRead handles the scratch_read tool call.
func (h *Handlers) HandleRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReadRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Path == "" {
		return errorResult(errors.NewInvalidRequest("path is required")), nil
	}
	if !scratch.UnderRoot(h.settings.ScratchbookFolder, input.Path) {
		return errorResult(errors.NewInvalidRequest("path is outside the scratchbook folder")), nil
	}

	info, err := os.Stat(input.Path)
	if err != nil {
		return errorResult(errors.NewNotFound(input.Path)), nil
	}
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return errorResult(errors.NewNotFound(input.Path)), nil
	}

	return successResult(ReadResult{
		Path:    input.Path,
		Name:    filepath.Base(input.Path),
		Size:    info.Size(),
		ModTime: info.ModTime().Unix(),
		Content: string(data),
	})
}

// HandleReindex handles the scratch_reindex tool call.
func (h *Handlers) HandleReindex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.ix == nil {
		return errorResult(errors.NewInvalidRequest("search index is disabled")), nil
	}

	count, err := h.ix.Reindex(h.settings.ScratchbookFolder)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	return successResult(ReindexResult{Indexed: count})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.ScratchError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
