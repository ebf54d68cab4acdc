package viewer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/civ"
	"github.com/ziadkadry99/techtree/internal/overlay"
	"github.com/ziadkadry99/techtree/internal/session"
)

// pathResponse is the JSON response for the path endpoint.
type pathResponse struct {
	Node  string   `json:"node"`
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

// placeRequest is the body of POST /api/overlay/place.
type placeRequest struct {
	Anchor   catalogue.Rect    `json:"anchor"`
	Size     overlay.Size      `json:"size"`
	Viewport *overlay.Viewport `json:"viewport,omitempty"`
}

// availableResponse is the JSON response for the availability endpoint.
type availableResponse struct {
	Civ       string         `json:"civ"`
	Kind      catalogue.Kind `json:"kind"`
	ID        string         `json:"id"`
	Available bool           `json:"available"`
	Opacity   float64        `json:"opacity"`
}

func (v *Viewer) handleNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, v.eng.Catalogue.Layout)
}

func (v *Viewer) handlePath(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp := pathResponse{Node: id, Nodes: []string{}, Edges: []string{}}
	for _, step := range v.eng.Graph.HighlightPath(id) {
		resp.Nodes = append(resp.Nodes, step.Node)
		if step.Edge != nil {
			resp.Edges = append(resp.Edges, step.Edge.ID())
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (v *Viewer) handleHelp(w http.ResponseWriter, r *http.Request) {
	kind, err := catalogue.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v.eng.Compose(kind, chi.URLParam(r, "id"), r.URL.Query().Get("name")))
}

func (v *Viewer) handleBadges(w http.ResponseWriter, r *http.Request) {
	kind, err := catalogue.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	badges := v.eng.Civs.Badges(kind, chi.URLParam(r, "id"))
	if badges == nil {
		badges = []civ.Badge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"badges": badges})
}

func (v *Viewer) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	vp := v.viewport
	if req.Viewport != nil {
		vp = *req.Viewport
	}
	writeJSON(w, http.StatusOK, overlay.Place(req.Anchor, req.Size, vp))
}

func (v *Viewer) handleCivs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"civs": v.eng.Civs.Civs()})
}

func (v *Viewer) handleAvailable(w http.ResponseWriter, r *http.Request) {
	kind, err := catalogue.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	civID, id := chi.URLParam(r, "civ"), chi.URLParam(r, "id")
	ok := v.eng.Civs.IsAvailable(civID, kind, id)
	writeJSON(w, http.StatusOK, availableResponse{
		Civ:       civID,
		Kind:      kind,
		ID:        id,
		Available: ok,
		Opacity:   civ.Opacity(ok),
	})
}

func (v *Viewer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if v.searcher == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "search is not enabled"})
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}

	var kind catalogue.Kind
	if k := r.URL.Query().Get("kind"); k != "" {
		parsed, err := catalogue.ParseKind(k)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		kind = parsed
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := v.searcher.Search(r.Context(), q, limit, kind)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if results == nil {
		writeJSON(w, http.StatusOK, map[string]any{"results": []any{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (v *Viewer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": v.sessions.List()})
}

func (v *Viewer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Civ string `json:"civ"`
	}
	// An empty body starts a session with the default civilization.
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}
	if req.Civ == "" {
		req.Civ = v.civ
	}

	s, err := v.sessions.Create(r.Context(), req.Civ)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.State())
}

func (v *Viewer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := v.sessions.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

func (v *Viewer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := v.sessions.Delete(r.Context(), chi.URLParam(r, "sid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (v *Viewer) handleHover(w http.ResponseWriter, r *http.Request) {
	v.handleEvent(w, r, EventHover)
}

func (v *Viewer) handleLeave(w http.ResponseWriter, r *http.Request) {
	v.handleEvent(w, r, EventLeave)
}

func (v *Viewer) handleClick(w http.ResponseWriter, r *http.Request) {
	v.handleEvent(w, r, EventClick)
}

func (v *Viewer) handleDismiss(w http.ResponseWriter, r *http.Request) {
	v.handleEvent(w, r, EventDismiss)
}

func (v *Viewer) handleSelectCiv(w http.ResponseWriter, r *http.Request) {
	v.handleEvent(w, r, EventCiv)
}

// handleEvent decodes the optional event body and dispatches it to the
// session named in the path.
func (v *Viewer) handleEvent(w http.ResponseWriter, r *http.Request, typ string) {
	s, err := v.sessions.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}

	var ev event
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}
	ev.Type = typ

	result, err := v.dispatch(s, ev)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrUnknownSession), errors.Is(err, session.ErrUnknownNode),
		errors.Is(err, catalogue.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadEvent):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
