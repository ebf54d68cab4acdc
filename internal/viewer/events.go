package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/techtree/internal/overlay"
	"github.com/ziadkadry99/techtree/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event types understood by a session, over REST and websocket alike.
const (
	EventHover   = "hover"
	EventLeave   = "leave"
	EventClick   = "click"
	EventDismiss = "dismiss"
	EventCiv     = "civ"
)

var errBadEvent = errors.New("bad event")

// event is one pointer or control event.
type event struct {
	Type     string            `json:"type"`
	Node     string            `json:"node,omitempty"`
	Civ      string            `json:"civ,omitempty"`
	Size     overlay.Size      `json:"size"`
	Viewport *overlay.Viewport `json:"viewport,omitempty"`
}

// eventResponse is the outgoing websocket message format.
type eventResponse struct {
	Type   string             `json:"type"` // "update", "focus" or "error"
	Event  string             `json:"event,omitempty"`
	Update *session.Update    `json:"update,omitempty"`
	Focus  *session.FocusView `json:"focus,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// dispatch applies ev to s. The result is a session.Update, or a
// session.FocusView for clicks.
func (v *Viewer) dispatch(s *session.Session, ev event) (any, error) {
	switch ev.Type {
	case EventHover:
		return s.Hover(ev.Node)
	case EventLeave:
		return s.Leave(), nil
	case EventClick:
		vp := v.viewport
		if ev.Viewport != nil {
			vp = *ev.Viewport
		}
		return s.Click(ev.Node, ev.Size, vp)
	case EventDismiss:
		return s.Dismiss(), nil
	case EventCiv:
		if ev.Civ == "" {
			return nil, fmt.Errorf("%w: civ is required", errBadEvent)
		}
		return s.SelectCiv(ev.Civ), nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", errBadEvent, ev.Type)
	}
}

func (v *Viewer) handleEvents(w http.ResponseWriter, r *http.Request) {
	s, err := v.sessions.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("viewer: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("viewer: websocket read: %v", err)
			}
			return
		}

		var ev event
		if err := json.Unmarshal(msg, &ev); err != nil {
			v.send(conn, eventResponse{Type: "error", Error: "invalid message format"})
			continue
		}

		result, err := v.dispatch(s, ev)
		if err != nil {
			v.send(conn, eventResponse{Type: "error", Event: ev.Type, Error: err.Error()})
			continue
		}

		switch res := result.(type) {
		case session.FocusView:
			v.send(conn, eventResponse{Type: "focus", Event: ev.Type, Focus: &res})
		case session.Update:
			v.send(conn, eventResponse{Type: "update", Event: ev.Type, Update: &res})
		}
	}
}

func (v *Viewer) send(conn *websocket.Conn, resp eventResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("viewer: websocket write: %v", err)
	}
}
