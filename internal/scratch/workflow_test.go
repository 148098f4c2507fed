package scratch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scratchbook/internal/editor"
	"scratchbook/internal/index"
)

// TestWorkflow_SaveThenSearch covers the full path from an editor buffer to
// a search hit: save through the manager, then find the file by content.
func TestWorkflow_SaveThenSearch(t *testing.T) {
	ix, err := index.Open(t.TempDir())
	require.NoError(t, err)
	defer ix.Close()

	host := editor.NewMemHost()
	m := NewManager(host, testSettings(t), ix)

	buf := host.MemWindow().NewBuffer().(*editor.MemBuffer)
	buf.SetText("SELECT revenue FROM quarterly_report WHERE region = 'emea'")
	path, err := m.Save(buf)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	other := host.MemWindow().NewBuffer().(*editor.MemBuffer)
	other.SetText("grocery list\nmilk\neggs")
	_, err = m.Save(other)
	require.NoError(t, err)

	n, err := ix.Count()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	out, err := Search(ix, SearchInput{Query: "quarterly_report"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	hit := out.Items[0]
	require.Equal(t, path, hit.Path)
	require.Equal(t, ".sql", hit.Ext)
	require.Contains(t, hit.Snippet, "<b>quarterly_report</b>")
	require.Equal(t, 1, out.Pagination.Total)
	require.False(t, out.Pagination.HasMore)
	require.Equal(t, "relevance", out.Sort)
}

// TestWorkflow_EditedBufferReindexed verifies a debounced re-save refreshes
// the indexed content so stale matches disappear.
func TestWorkflow_EditedBufferReindexed(t *testing.T) {
	ix, err := index.Open(t.TempDir())
	require.NoError(t, err)
	defer ix.Close()

	host := editor.NewMemHost()
	m := NewManager(host, testSettings(t), ix)

	buf := host.MemWindow().NewBuffer().(*editor.MemBuffer)
	buf.SetText("original topic alpha")
	_, err = m.Save(buf)
	require.NoError(t, err)

	buf.SetText("replaced topic bravo")
	m.OnModified(buf)
	host.Drain()

	out, err := Search(ix, SearchInput{Query: "alpha"})
	require.NoError(t, err)
	require.Empty(t, out.Items)

	out, err = Search(ix, SearchInput{Query: "bravo"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
}

func TestSearch_InputValidation(t *testing.T) {
	ix, err := index.Open(t.TempDir())
	require.NoError(t, err)
	defer ix.Close()

	_, err = Search(ix, SearchInput{Query: "   "})
	require.Error(t, err)

	// Limit is clamped to the maximum, not rejected.
	out, err := Search(ix, SearchInput{Query: "anything", Limit: 10_000})
	require.NoError(t, err)
	require.Equal(t, MaxSearchLimit, out.Pagination.Limit)
}
