package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/shsh-demos/internal/search"
)

// SearchLocal scans the configured directory for the query.
func (h *Handler) SearchLocal(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, requiredField("q"))
		return
	}

	matches, err := h.Local.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"query": q, "count": len(matches), "matches": matches})
}

// SearchWikipedia returns the summary of the top hit. Lookup failures are
// reported as no result.
func (h *Handler) SearchWikipedia(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, requiredField("q"))
		return
	}

	sum, err := h.Wikipedia.Lookup(r.Context(), q)
	if err != nil {
		if !errors.Is(err, search.ErrNoResult) {
			slog.Warn("Wikipedia lookup failed", "query", q, "error", err)
		}
		JSON(w, http.StatusOK, map[string]any{"query": q, "found": false})
		return
	}
	JSON(w, http.StatusOK, map[string]any{"query": q, "found": true, "result": sum})
}
