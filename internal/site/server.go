package site

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/search"
)

const (
	defaultSearchLimit = 8
	maxSearchLimit     = 20
	maxSnippet         = 500
)

// Serve starts a local HTTP server for the exported site.
func Serve(dir string, port int, open bool, searcher search.Searcher) error {
	url := fmt.Sprintf("http://localhost:%d", port)
	if open {
		go openBrowser(url)
	}
	return http.ListenAndServe(fmt.Sprintf(":%d", port), Handler(dir, searcher))
}

// Handler serves the files in dir. With a searcher, POST /api/search runs a
// semantic search and links every hit to its entity page.
func Handler(dir string, searcher search.Searcher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if searcher != nil {
		r.Post("/api/search", func(w http.ResponseWriter, r *http.Request) {
			handleSearch(w, r, searcher)
		})
	}
	r.Handle("/*", http.FileServer(http.Dir(dir)))
	return r
}

// searchRequest is the JSON body of POST /api/search.
type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// searchHit is one result of POST /api/search.
type searchHit struct {
	Path       string         `json:"path"`
	Title      string         `json:"title"`
	Kind       catalogue.Kind `json:"kind"`
	Similarity float32        `json:"similarity"`
	Content    string         `json:"content"`
}

func handleSearch(w http.ResponseWriter, r *http.Request, searcher search.Searcher) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	var kind catalogue.Kind
	if req.Kind != "" {
		k, err := catalogue.ParseKind(req.Kind)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		kind = k
	}

	limit := req.Limit
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	results, err := searcher.Search(r.Context(), query, limit, kind)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed: " + err.Error()})
		return
	}

	hits := make([]searchHit, len(results))
	for i, res := range results {
		hits[i] = searchHit{
			Path:       PagePath(catalogue.Node{ID: res.ID, Kind: res.Kind}),
			Title:      res.Name,
			Kind:       res.Kind,
			Similarity: res.Similarity,
			Content:    snippet(res.Text),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

func snippet(s string) string {
	if utf8.RuneCountInString(s) <= maxSnippet {
		return s
	}
	return string([]rune(s)[:maxSnippet]) + "..."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
