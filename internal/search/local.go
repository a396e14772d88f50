// Package search finds text in local files and summaries on Wikipedia.
package search

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var skipDirs = []string{".git", "venv", "node_modules"}

// Match is one matching line.
type Match struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Local scans files under a root directory.
type Local struct {
	root       string
	maxResults int
	extensions []string
}

// NewLocal creates a Local searcher. Extensions include the dot.
func NewLocal(root string, maxResults int, extensions []string) *Local {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &Local{root: root, maxResults: maxResults, extensions: exts}
}

// Search returns up to maxResults lines containing query, compared
// case-insensitively, in directory walk order. Unreadable files are skipped.
func (l *Local) Search(ctx context.Context, query string) ([]Match, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	results := []Match{}
	if needle == "" {
		return results, nil
	}

	errLimit := errors.New("limit reached")
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && path != l.root {
				return fs.SkipDir
			}
			if path == l.root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != l.root && slices.Contains(skipDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !l.allowed(d.Name()) {
			return nil
		}

		rel, relErr := filepath.Rel(l.root, path)
		if relErr != nil {
			rel = path
		}
		found, full := l.scanFile(path, filepath.ToSlash(rel), needle, l.maxResults-len(results))
		results = append(results, found...)
		if full {
			return errLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		return results, err
	}
	return results, nil
}

func (l *Local) allowed(name string) bool {
	return slices.Contains(l.extensions, strings.ToLower(filepath.Ext(name)))
}

// scanFile collects up to limit matches from one file and reports whether
// the limit was reached.
func (l *Local) scanFile(path, rel, needle string, limit int) ([]Match, bool) {
	f, err := os.Open(path)
	if err != nil {
		slog.Debug("Skipping unreadable file", "path", rel, "error", err)
		return nil, false
	}
	defer func() { _ = f.Close() }()

	var out []Match
	r := bufio.NewReader(f)
	for lineNo := 1; ; lineNo++ {
		line, readErr := r.ReadString('\n')
		if line != "" {
			text := strings.ToValidUTF8(line, "")
			if strings.Contains(strings.ToLower(text), needle) {
				out = append(out, Match{Path: rel, Line: lineNo, Text: strings.TrimSpace(text)})
				if len(out) >= limit {
					return out, true
				}
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				slog.Debug("Stopped reading file", "path", rel, "error", readErr)
			}
			return out, false
		}
	}
}
