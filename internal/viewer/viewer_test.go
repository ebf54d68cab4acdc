package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/civ"
	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/overlay"
	"github.com/ziadkadry99/techtree/internal/search"
	"github.com/ziadkadry99/techtree/internal/session"
)

func testEngine() *engine.Engine {
	cat := catalogue.New()
	cat.Layout = catalogue.Layout{
		Nodes: []catalogue.Node{
			{ID: "building_87", Kind: catalogue.KindBuilding, Rect: catalogue.Rect{X: 400, Y: 20, Width: 60, Height: 40}},
			{ID: "unit_4", Kind: catalogue.KindUnit, Rect: catalogue.Rect{X: 400, Y: 120, Width: 60, Height: 40}},
			{ID: "unit_24", Kind: catalogue.KindUnit, Rect: catalogue.Rect{X: 400, Y: 220, Width: 60, Height: 40}},
		},
		Connections: []catalogue.Connection{
			{Parent: "building_87", Child: "unit_4"},
			{Parent: "unit_4", Child: "unit_24"},
		},
	}
	hp := 30.0
	cat.Stats.Put(&catalogue.Entity{Kind: catalogue.KindUnit, ID: 4, NameStringID: 10, HelpStringID: 11, Stats: &catalogue.Stats{HP: &hp}})
	cat.Strings[10] = "Archer"
	cat.Strings[11] = "Create ‹b›Archer‹b› (‹cost›)\nShoots. <i>Upgrades: range.</i>\n‹hp›"
	cat.Civs["Britons"] = &catalogue.Civilization{ID: "Britons", Units: []int{4}}
	cat.Civs["Goths"] = &catalogue.Civilization{ID: "Goths"}
	return engine.New(cat, func(string, ...any) {})
}

func setupRouter(t *testing.T, opts ...Option) chi.Router {
	t.Helper()
	eng := testEngine()
	v := New(eng, session.NewManager(eng, nil), append([]Option{WithDefaultCiv("Britons")}, opts...)...)
	r := chi.NewRouter()
	v.RegisterRoutes(r, r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestNodesAndPath(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodGet, "/api/nodes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var layout catalogue.Layout
	decode(t, w, &layout)
	if len(layout.Nodes) != 3 || len(layout.Connections) != 2 {
		t.Errorf("layout = %+v", layout)
	}

	w = do(t, r, http.MethodGet, "/api/nodes/unit_24/path", "")
	var path pathResponse
	decode(t, w, &path)
	if len(path.Nodes) != 3 || path.Nodes[0] != "unit_24" {
		t.Errorf("path nodes = %v", path.Nodes)
	}
	if len(path.Edges) != 2 {
		t.Errorf("path edges = %v", path.Edges)
	}

	w = do(t, r, http.MethodGet, "/api/nodes/building_87/path", "")
	decode(t, w, &path)
	if len(path.Nodes) != 1 || len(path.Edges) != 0 {
		t.Errorf("root path = %+v", path)
	}
}

func TestHelpEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodGet, "/api/entities/unit/unit_4/help", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var h engine.Help
	decode(t, w, &h)
	if h.Name != "Archer" {
		t.Errorf("name = %q", h.Name)
	}
	if !strings.Contains(h.Help, "HP: 30") {
		t.Errorf("help = %s", h.Help)
	}

	w = do(t, r, http.MethodGet, "/api/entities/wizard/unit_4/help", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad kind: expected 400, got %d", w.Code)
	}
}

func TestPlaceEndpoint(t *testing.T) {
	r := setupRouter(t)

	body := `{"anchor":{"x":400,"y":120,"width":60,"height":40},"size":{"width":200,"height":100}}`
	w := do(t, r, http.MethodPost, "/api/overlay/place", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var p overlay.Placement
	decode(t, w, &p)
	if p.Top != 160 || p.Left != 200 || p.Strategy != overlay.Below {
		t.Errorf("placement = %+v", p)
	}

	// A short container pushes the popup above the anchor.
	body = `{"anchor":{"x":400,"y":120,"width":60,"height":40},"size":{"width":200,"height":100},"viewport":{"width":800,"height":200}}`
	w = do(t, r, http.MethodPost, "/api/overlay/place", body)
	decode(t, w, &p)
	if p.Strategy != overlay.Above || p.Top != 20 {
		t.Errorf("placement = %+v", p)
	}

	w = do(t, r, http.MethodPost, "/api/overlay/place", "{")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad body: expected 400, got %d", w.Code)
	}
}

func TestAvailabilityEndpoints(t *testing.T) {
	r := setupRouter(t)

	var civs struct {
		Civs []string `json:"civs"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/civs", ""), &civs)
	if strings.Join(civs.Civs, ",") != "Britons,Goths" {
		t.Errorf("civs = %v", civs.Civs)
	}

	tests := []struct {
		civ     string
		want    bool
		opacity float64
	}{
		{"Britons", true, 1.0},
		{"Goths", false, 0.2},
		{"Atlanteans", false, 0.2},
	}
	for _, tt := range tests {
		var got availableResponse
		decode(t, do(t, r, http.MethodGet, "/api/civs/"+tt.civ+"/available/unit/unit_4", ""), &got)
		if got.Available != tt.want || got.Opacity != tt.opacity {
			t.Errorf("%s: got %+v", tt.civ, got)
		}
	}

	var badges struct {
		Badges []civ.Badge `json:"badges"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/entities/unit/unit_4/badges", ""), &badges)
	if len(badges.Badges) != 2 || !badges.Badges[0].Available || badges.Badges[1].Available {
		t.Errorf("badges = %+v", badges.Badges)
	}
}

func TestSessionLifecycle(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/api/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var st session.State
	decode(t, w, &st)
	if st.ID == "" || st.Civ != "Britons" {
		t.Fatalf("state = %+v", st)
	}
	base := "/api/sessions/" + st.ID

	w = do(t, r, http.MethodPost, base+"/hover", `{"node":"unit_4"}`)
	var u session.Update
	decode(t, w, &u)
	if len(u.Ops) == 0 {
		t.Error("hover returned no ops")
	}

	w = do(t, r, http.MethodPost, base+"/hover", `{"node":"unit_999"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown node: expected 404, got %d", w.Code)
	}

	w = do(t, r, http.MethodPost, base+"/click", `{"node":"unit_4","size":{"width":200,"height":100}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("click: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var fv session.FocusView
	decode(t, w, &fv)
	if fv.Help.Name != "Archer" || !fv.Available || fv.Placement.Top != 160 {
		t.Errorf("focus view = %+v", fv)
	}

	decode(t, do(t, r, http.MethodGet, base, ""), &st)
	if st.Focused != "unit_4" {
		t.Errorf("focused = %q", st.Focused)
	}

	w = do(t, r, http.MethodPost, base+"/civ", `{"civ":"Goths"}`)
	decode(t, w, &u)
	if len(u.Badges) != 2 {
		t.Errorf("civ change badges = %+v", u.Badges)
	}

	w = do(t, r, http.MethodPost, base+"/civ", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("civ without body: expected 400, got %d", w.Code)
	}

	w = do(t, r, http.MethodPost, base+"/dismiss", "")
	decode(t, w, &u)
	if !u.Hide {
		t.Error("dismiss did not hide the popup")
	}

	if w := do(t, r, http.MethodDelete, base, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, base+"/leave", ""); w.Code != http.StatusNotFound {
		t.Errorf("deleted session: expected 404, got %d", w.Code)
	}
}

type fakeSearcher struct {
	query string
	kind  catalogue.Kind
}

func (f *fakeSearcher) Search(_ context.Context, q string, limit int, kind catalogue.Kind) ([]search.Result, error) {
	f.query, f.kind = q, kind
	return []search.Result{{ID: "unit_4", Kind: catalogue.KindUnit, Name: "Archer", Similarity: 0.9}}, nil
}

func TestSearchEndpoint(t *testing.T) {
	if w := do(t, setupRouter(t), http.MethodGet, "/api/search?q=archer", ""); w.Code != http.StatusNotFound {
		t.Errorf("search disabled: expected 404, got %d", w.Code)
	}

	fs := &fakeSearcher{}
	r := setupRouter(t, WithSearch(fs))

	if w := do(t, r, http.MethodGet, "/api/search", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing q: expected 400, got %d", w.Code)
	}

	var resp struct {
		Results []search.Result `json:"results"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/search?q=ranged&kind=unit", ""), &resp)
	if len(resp.Results) != 1 || resp.Results[0].ID != "unit_4" {
		t.Errorf("results = %+v", resp.Results)
	}
	if fs.query != "ranged" || fs.kind != catalogue.KindUnit {
		t.Errorf("searcher got %q %q", fs.query, fs.kind)
	}
}

func TestEventsWebSocket(t *testing.T) {
	r := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", strings.NewReader(`{"civ":"Goths"}`))
	if err != nil {
		t.Fatal(err)
	}
	var st session.State
	json.NewDecoder(resp.Body).Decode(&st)
	resp.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + st.ID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	roundTrip := func(ev event) eventResponse {
		t.Helper()
		if err := conn.WriteJSON(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
		var out eventResponse
		if err := conn.ReadJSON(&out); err != nil {
			t.Fatalf("read: %v", err)
		}
		return out
	}

	out := roundTrip(event{Type: EventHover, Node: "unit_24"})
	if out.Type != "update" || out.Update == nil || len(out.Update.Ops) == 0 {
		t.Errorf("hover response = %+v", out)
	}

	out = roundTrip(event{Type: EventClick, Node: "unit_4", Size: overlay.Size{Width: 200, Height: 100}})
	if out.Type != "focus" || out.Focus == nil {
		t.Fatalf("click response = %+v", out)
	}
	if out.Focus.Civ != "Goths" || out.Focus.Available {
		t.Errorf("focus = %+v", out.Focus)
	}

	out = roundTrip(event{Type: "teleport"})
	if out.Type != "error" || !strings.Contains(out.Error, "teleport") {
		t.Errorf("unknown event response = %+v", out)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	var bad eventResponse
	if err := conn.ReadJSON(&bad); err != nil || bad.Error != "invalid message format" {
		t.Errorf("invalid message response = %+v, %v", bad, err)
	}
}

func TestEventsUnknownSession(t *testing.T) {
	w := do(t, setupRouter(t), http.MethodGet, "/api/sessions/nope/events", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestServeIndex(t *testing.T) {
	w := do(t, setupRouter(t), http.MethodGet, "/", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/sessions") {
		t.Errorf("index: %d", w.Code)
	}
}
