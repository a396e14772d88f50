package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLocal_FindsMatchesInAllowedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "Intro\n  Python list comprehension  \n")
	writeFile(t, root, "src/app.py", "# PYTHON rocks\nprint(1)\n")
	writeFile(t, root, "src/app.go", "// python in a go file\n")
	writeFile(t, root, ".git/notes.txt", "python hidden\n")
	writeFile(t, root, "venv/lib/site.py", "python venv\n")
	writeFile(t, root, "docs/node_modules/x.md", "python deps\n")

	l := NewLocal(root, 50, []string{".py", ".md", ".txt", ".rst"})
	got, err := l.Search(context.Background(), "Python")
	require.NoError(t, err)

	assert.Equal(t, []Match{
		{Path: "README.md", Line: 2, Text: "Python list comprehension"},
		{Path: "src/app.py", Line: 1, Text: "# PYTHON rocks"},
	}, got)
}

func TestLocal_RespectsMaxResults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", strings.Repeat("needle\n", 30))
	writeFile(t, root, "b.txt", strings.Repeat("needle\n", 30))

	l := NewLocal(root, 40, []string{".txt"})
	got, err := l.Search(context.Background(), "NEEDLE")
	require.NoError(t, err)
	require.Len(t, got, 40)
	assert.Equal(t, "b.txt", got[39].Path)
	assert.Equal(t, 10, got[39].Line)
}

func TestLocal_EmptyQueryAndLongLines(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "long.rst", strings.Repeat("x", 200_000)+"target"+"\nnext")

	l := NewLocal(root, 5, []string{".RST"})
	got, err := l.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = l.Search(context.Background(), "target")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Line)
}

func TestLocal_MissingRoot(t *testing.T) {
	l := NewLocal(filepath.Join(t.TempDir(), "missing"), 5, []string{".md"})
	_, err := l.Search(context.Background(), "x")
	require.Error(t, err)
}

func newWikiServer(t *testing.T, searchBody string, summaryStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		switch {
		case r.URL.Path == "/w/api.php":
			q := r.URL.Query()
			assert.Equal(t, "query", q.Get("action"))
			assert.Equal(t, "search", q.Get("list"))
			assert.Equal(t, "1", q.Get("srlimit"))
			_, _ = w.Write([]byte(searchBody))
		case strings.HasPrefix(r.URL.Path, "/api/rest_v1/page/summary/"):
			if summaryStatus != http.StatusOK {
				w.WriteHeader(summaryStatus)
				return
			}
			assert.Equal(t, "/api/rest_v1/page/summary/Artificial intelligence", r.URL.Path)
			_, _ = w.Write([]byte(`{"title":"Artificial intelligence","extract":"AI is intelligence of machines."}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWikipedia_Lookup(t *testing.T) {
	srv := newWikiServer(t, `{"query":{"search":[{"title":"Artificial intelligence"}]}}`, http.StatusOK)
	w := NewWikipedia(srv.URL+"/", srv.Client())

	got, err := w.Lookup(context.Background(), "人工智慧")
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Title:   "Artificial intelligence",
		Summary: "AI is intelligence of machines.",
		URL:     srv.URL + "/wiki/Artificial_intelligence",
	}, got)
}

func TestWikipedia_NoHit(t *testing.T) {
	srv := newWikiServer(t, `{"query":{"search":[]}}`, http.StatusOK)
	_, err := NewWikipedia(srv.URL, srv.Client()).Lookup(context.Background(), "zzzz")
	require.ErrorIs(t, err, ErrNoResult)
}

func TestWikipedia_SummaryFailure(t *testing.T) {
	srv := newWikiServer(t, `{"query":{"search":[{"title":"Artificial intelligence"}]}}`, http.StatusBadGateway)
	_, err := NewWikipedia(srv.URL, srv.Client()).Lookup(context.Background(), "ai")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}
