package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"scratchbook/internal/config"
	"scratchbook/internal/errors"
	"scratchbook/internal/index"
	"scratchbook/internal/scratch"
	"scratchbook/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(settings *config.Settings, ix *index.Index) *cli.App {
	app := &cli.App{
		Name:    "scratchbook",
		Usage:   "Auto-saving scratch file store",
		Version: Version,
		Commands: []*cli.Command{
			saveCmd(settings, ix),
			newCmd(settings),
			listCmd(settings),
			searchCmd(ix),
			closeAllCmd(settings),
			folderCmd(settings),
			reindexCmd(settings, ix),
			webCmd(settings, ix),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// saveCmd creates the save command.
func saveCmd(settings *config.Settings, ix *index.Index) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save piped content to a new scratch file (reads from stdin)",
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("content must be piped via stdin"))
			}

			content, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			path, err := scratch.SaveNew(content, settings, ix)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"path": path,
				"name": filepath.Base(path),
				"ext":  filepath.Ext(path),
				"size": len(content),
			})
		},
	}
}

// newCmd creates the new command.
func newCmd(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Create an empty scratch file and print its path",
		Action: func(c *cli.Context) error {
			path, err := scratch.GeneratePath("", settings, time.Now())
			if err != nil {
				return outputError(errors.NewSaveFailed(settings.ScratchbookFolder, err))
			}
			if err := os.WriteFile(path, nil, 0644); err != nil {
				return outputError(errors.NewSaveFailed(path, err))
			}
			fmt.Println(path)
			return nil
		},
	}
}

// listCmd creates the list command. "browse" is an alias.
func listCmd(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"browse"},
		Usage:   "List saved scratch files, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to show"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.StringFlag{Name: "pattern", Aliases: []string{"p"}, Usage: "Glob filter on file names (e.g. '*.sql')"},
			&cli.BoolFlag{Name: "json", Usage: "Output JSON instead of a table"},
		},
		Action: func(c *cli.Context) error {
			entries, err := scratch.List(settings.ScratchbookFolder)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			if pattern := c.String("pattern"); pattern != "" {
				g, err := glob.Compile(pattern)
				if err != nil {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid pattern: %v", err)))
				}
				filtered := entries[:0]
				for _, e := range entries {
					if g.Match(e.Name) {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}

			total := len(entries)
			limit := max(c.Int("limit"), 0)
			offset := max(c.Int("offset"), 0)
			page := entries[min(offset, total):min(offset+limit, total)]

			now := time.Now()
			if c.Bool("json") {
				items := make([]map[string]any, len(page))
				for i, e := range page {
					items[i] = map[string]any{
						"path":    e.Path,
						"name":    e.Name,
						"size":    e.Size,
						"mtime":   e.ModTime.Unix(),
						"age":     scratch.RelativeAge(e.ModTime, now),
						"preview": scratch.Preview(e.Path),
					}
				}
				return outputJSON(map[string]any{
					"items": items,
					"total": total,
				})
			}

			if len(page) == 0 {
				fmt.Println("No scratch files.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Size", "Modified", "Preview"})
			for _, e := range page {
				t.AppendRow(table.Row{
					e.Name,
					humanize.Bytes(uint64(max(e.Size, 0))),
					scratch.RelativeAge(e.ModTime, now),
					scratch.Preview(e.Path),
				})
			}
			t.Render()
			if offset+len(page) < total {
				fmt.Printf("Showing %d-%d of %d\n", offset+1, offset+len(page), total)
			}
			return nil
		},
	}
}

// searchCmd creates the search command.
func searchCmd(ix *index.Index) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search across scratch files",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum results to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Results to skip"},
		},
		Action: func(c *cli.Context) error {
			if ix == nil {
				return outputError(errors.NewInvalidRequest("search index is disabled"))
			}
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("query is required"))
			}

			output, err := scratch.Search(ix, scratch.SearchInput{
				Query:  c.Args().First(),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// closeAllCmd creates the close-all command. A CLI run has no editor
// buffers to close; the command reports what is on disk instead.
func closeAllCmd(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "close-all",
		Usage: "Report the scratch files currently saved on disk",
		Action: func(c *cli.Context) error {
			entries, err := scratch.List(settings.ScratchbookFolder)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return outputJSON(map[string]any{
				"files":   len(entries),
				"message": fmt.Sprintf("%d scratch file(s) in %s", len(entries), settings.ScratchbookFolder),
			})
		},
	}
}

// folderCmd creates the folder command.
func folderCmd(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "folder",
		Usage: "Print the scratchbook folder, creating it if missing",
		Action: func(c *cli.Context) error {
			if err := os.MkdirAll(settings.ScratchbookFolder, 0755); err != nil {
				return outputError(errors.NewSaveFailed(settings.ScratchbookFolder, err))
			}
			fmt.Println(settings.ScratchbookFolder)
			return nil
		},
	}
}

// reindexCmd creates the reindex command.
func reindexCmd(settings *config.Settings, ix *index.Index) *cli.Command {
	return &cli.Command{
		Name:  "reindex",
		Usage: "Rebuild the search index from the scratchbook folder",
		Action: func(c *cli.Context) error {
			if ix == nil {
				return outputError(errors.NewInvalidRequest("search index is disabled"))
			}
			count, err := ix.Reindex(settings.ScratchbookFolder)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return outputJSON(map[string]any{"indexed": count})
		},
	}
}

// webCmd creates the web command.
func webCmd(settings *config.Settings, ix *index.Index) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the scratchbook web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8374, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(settings, ix, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.ScratchError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	return !isTerminal()
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
