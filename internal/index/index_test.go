package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func entry(path, content string) FileEntry {
	return FileEntry{
		Path:      path,
		Name:      filepath.Base(path),
		Ext:       filepath.Ext(path),
		Size:      int64(len(content)),
		ModTime:   time.Now().Unix(),
		FirstLine: content,
	}
}

func TestOpen_CreatesAndReopens(t *testing.T) {
	dir := t.TempDir()

	ix, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := ix.Record(entry("/tmp/a.txt", "hello"), "hello"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	ix.Close()

	// Reopening the same directory keeps the data; migrations are no-ops at
	// the current version.
	ix, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer ix.Close()

	n, err := ix.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d after reopen, want 1", n)
	}
}

func TestRecord_UpsertReplaces(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.Record(entry("/tmp/a.txt", "old content"), "old content"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := ix.Record(entry("/tmp/a.txt", "new content"), "new content"); err != nil {
		t.Fatalf("re-Record failed: %v", err)
	}

	n, _ := ix.Count()
	if n != 1 {
		t.Fatalf("Count = %d, want 1 after upsert", n)
	}

	hits, _, err := ix.Search("old", 10, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("stale content still matches: %v", hits)
	}

	hits, total, err := ix.Search("new", 10, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 || len(hits) != 1 {
		t.Fatalf("Search(new) total=%d hits=%d, want 1/1", total, len(hits))
	}
}

func TestSearch_SnippetMarkers(t *testing.T) {
	ix := openTestIndex(t)

	content := "notes about kubernetes ingress routing"
	if err := ix.Record(entry("/tmp/k8s.md", content), content); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	hits, _, err := ix.Search("ingress", 10, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	want := "[[[B]]]ingress[[[/B]]]"
	if snippet := hits[0].Snippet; !strings.Contains(snippet, want) {
		t.Errorf("snippet %q missing marker %q", snippet, want)
	}
	if hits[0].Name != "k8s.md" {
		t.Errorf("hit name = %q", hits[0].Name)
	}
}

func TestSearch_QuotesOperatorCharacters(t *testing.T) {
	ix := openTestIndex(t)

	content := `config: a AND b OR "quoted"`
	if err := ix.Record(entry("/tmp/ops.txt", content), content); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// FTS5 operator words and quotes in user input are matched literally,
	// not parsed as query syntax.
	for _, q := range []string{"AND", `"quoted"`, "a AND b"} {
		if _, _, err := ix.Search(q, 10, 0); err != nil {
			t.Errorf("Search(%q) failed: %v", q, err)
		}
	}
}

func TestSearch_Pagination(t *testing.T) {
	ix := openTestIndex(t)

	for _, name := range []string{"a", "b", "c"} {
		content := "shared token in " + name
		path := "/tmp/" + name + ".txt"
		if err := ix.Record(entry(path, content), content); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	hits, total, err := ix.Search("shared", 2, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 3 || len(hits) != 2 {
		t.Errorf("page 1: total=%d hits=%d, want 3/2", total, len(hits))
	}

	hits, total, err = ix.Search("shared", 2, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 3 || len(hits) != 1 {
		t.Errorf("page 2: total=%d hits=%d, want 3/1", total, len(hits))
	}
}

func TestRemove(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.Record(entry("/tmp/a.txt", "content"), "content"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := ix.Remove("/tmp/a.txt"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if n, _ := ix.Count(); n != 0 {
		t.Errorf("Count = %d after Remove, want 0", n)
	}

	// Removing an unindexed path is not an error.
	if err := ix.Remove("/tmp/never-indexed.txt"); err != nil {
		t.Errorf("Remove of unindexed path failed: %v", err)
	}
}

func TestReindex(t *testing.T) {
	ix := openTestIndex(t)

	// Seed a stale row that no longer exists on disk.
	if err := ix.Record(entry("/tmp/gone.txt", "stale"), "stale"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "2024", "03"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	files := map[string]string{
		filepath.Join(root, "top.txt"):                 "top level note",
		filepath.Join(root, "2024", "03", "nested.md"): "# nested note",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	count, err := ix.Reindex(root)
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Reindex = %d, want 2", count)
	}
	if n, _ := ix.Count(); n != 2 {
		t.Errorf("Count = %d after Reindex, want 2", n)
	}

	hits, _, err := ix.Search("stale", 10, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Error("stale row survived Reindex")
	}
	if hits, _, _ := ix.Search("nested", 10, 0); len(hits) != 1 {
		t.Errorf("nested file not indexed: %d hits", len(hits))
	}
}

func TestBuildMatchQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", `"hello"`},
		{"two words", `"two" "words"`},
		{`say "hi"`, `"say" """hi"""`},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := buildMatchQuery(tt.in); got != tt.want {
			t.Errorf("buildMatchQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
