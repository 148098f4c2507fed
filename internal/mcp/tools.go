package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the scratchbook MCP surface.

var saveToolDef = mcp.NewTool("scratch_save",
	mcp.WithDescription("Save text to a new scratch file. The file extension is inferred from the content (JSON, HTML, XML, CSV, Markdown, SQL, ...) unless auto-detection is disabled, and the filename is a timestamp made unique if needed. Returns the saved path."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Text to save. Whitespace-only content is rejected."),
	),
)

var listToolDef = mcp.NewTool("scratch_list",
	mcp.WithDescription("List saved scratch files, newest first, with a first-line preview, human-readable size and relative age for each."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum entries to return (default 20, max 100)."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Entries to skip, for pagination (default 0)."),
	),
)

var searchToolDef = mcp.NewTool("scratch_search",
	mcp.WithDescription("Full-text search across scratch file contents, ranked by relevance. Snippets highlight matched terms with <b> tags."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search terms. All terms must match (implicit AND)."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results to return (default 20, max 100)."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Results to skip, for pagination (default 0)."),
	),
)

var readToolDef = mcp.NewTool("scratch_read",
	mcp.WithDescription("Read the full content of one scratch file by path. Only paths inside the scratchbook folder are allowed."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Absolute path of the scratch file, as returned by scratch_list or scratch_search."),
	),
)

var reindexToolDef = mcp.NewTool("scratch_reindex",
	mcp.WithDescription("Rebuild the search index from the files currently in the scratchbook folder. Use after files were added, edited or deleted outside this tool."),
)
