package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scratchbook/internal/errors"
)

// MaxSearchQueryChars bounds accepted search query length.
const MaxSearchQueryChars = 500

// maxIndexedContentBytes caps how much of a file the content table holds.
// Scratch files are small; anything past the cap is unlikely to matter for
// search and keeps reindexing cheap.
const maxIndexedContentBytes = 1 << 20

// FileEntry is the indexed metadata for one scratch file.
type FileEntry struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Ext       string `json:"ext"`
	Size      int64  `json:"size"`
	ModTime   int64  `json:"mtime"`
	FirstLine string `json:"first_line"`
}

// Hit is one search result: the file entry plus a match snippet using
// [[[B]]] / [[[/B]]] highlight markers (escaped and converted to tags by
// the caller).
type Hit struct {
	FileEntry
	Snippet string `json:"snippet"`
}

// Record upserts the entry and its content. Re-recording the same path
// replaces the previous row.
func (ix *Index) Record(e FileEntry, content string) error {
	if len(content) > maxIndexedContentBytes {
		content = content[:maxIndexedContentBytes]
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO files (path, name, ext, size, mtime, first_line, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
		  name = excluded.name,
		  ext = excluded.ext,
		  size = excluded.size,
		  mtime = excluded.mtime,
		  first_line = excluded.first_line,
		  indexed_at = excluded.indexed_at
	`, e.Path, e.Name, e.Ext, e.Size, e.ModTime, e.FirstLine, time.Now().Unix())
	if err != nil {
		return errors.NewInternal(err)
	}

	if _, err := tx.Exec(`DELETE FROM files_fts WHERE path = ?`, e.Path); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := tx.Exec(`INSERT INTO files_fts (path, content) VALUES (?, ?)`, e.Path, content); err != nil {
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Remove drops a path from the index. Removing an unindexed path is not an
// error.
func (ix *Index) Remove(path string) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := tx.Exec(`DELETE FROM files_fts WHERE path = ?`, path); err != nil {
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Count returns the number of indexed files.
func (ix *Index) Count() (int, error) {
	var n int
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// Search runs a full-text query and returns relevance-ranked hits plus the
// total match count.
func (ix *Index) Search(query string, limit, offset int) ([]Hit, int, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, 0, errors.NewInvalidRequest("query is required")
	}

	var total int
	err := ix.db.QueryRow(`
		SELECT COUNT(*) FROM files_fts WHERE files_fts MATCH ?
	`, match).Scan(&total)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := ix.db.Query(`
		SELECT f.path, f.name, f.ext, f.size, f.mtime, COALESCE(f.first_line, ''),
		       snippet(files_fts, 1, '[[[B]]]', '[[[/B]]]', '...', 12)
		FROM files_fts
		JOIN files f ON f.path = files_fts.path
		WHERE files_fts MATCH ?
		ORDER BY bm25(files_fts)
		LIMIT ? OFFSET ?
	`, match, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	hits := make([]Hit, 0, limit)
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.Path, &h.Name, &h.Ext, &h.Size, &h.ModTime, &h.FirstLine, &h.Snippet); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return hits, total, nil
}

// Reindex rebuilds the index from a recursive walk of root, returning the
// number of files indexed. Unreadable files are skipped.
func (ix *Index) Reindex(root string) (int, error) {
	if _, err := ix.db.Exec(`DELETE FROM files`); err != nil {
		return 0, errors.NewInternal(err)
	}
	if _, err := ix.db.Exec(`DELETE FROM files_fts`); err != nil {
		return 0, errors.NewInternal(err)
	}

	count := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		content := string(data)
		e := FileEntry{
			Path:      path,
			Name:      info.Name(),
			Ext:       filepath.Ext(path),
			Size:      info.Size(),
			ModTime:   info.ModTime().Unix(),
			FirstLine: firstLine(content),
		}
		if err := ix.Record(e, content); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

// buildMatchQuery converts free text into an FTS5 MATCH expression: each
// whitespace-separated term becomes a quoted phrase, joined by implicit
// AND. Quoting keeps FTS5 operator characters in user input from being
// parsed as syntax.
func buildMatchQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, `""`)
		quoted = append(quoted, fmt.Sprintf(`"%s"`, t))
	}
	return strings.Join(quoted, " ")
}

// firstLine returns the first non-blank line of content, trimmed.
func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
