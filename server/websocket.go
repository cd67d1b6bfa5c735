package server

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/macrokeys/macrod/commands"
	"github.com/macrokeys/macrod/utils"
)

type wsConnection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

// eventFrame is one message on the /events stream.
type eventFrame struct {
	Type  string      `json:"type"` // "gesture" or "execution"
	Event interface{} `json:"event"`
}

// handleEvents upgrades to WebSocket and streams the active session's
// classified gestures and execution lifecycle events until the client
// disconnects.
func handleEvents(w http.ResponseWriter, r *http.Request, enableCORS bool) {
	session, err := commands.GetSession()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := newUpgrader(enableCORS).Upgrade(w, r, nil)
	if err != nil {
		utils.Warn("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	wsConn := &wsConnection{conn: conn}
	gestures := session.Gestures()
	executions := session.Events()

	// drain the read side so control frames are processed and closes
	// detected
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		var frame eventFrame
		select {
		case <-done:
			return
		case gev := <-gestures:
			frame = eventFrame{Type: "gesture", Event: gev}
		case eev := <-executions:
			frame = eventFrame{Type: "execution", Event: eev}
		}

		if err := wsConn.sendJSON(frame); err != nil {
			utils.Verbose("WebSocket connection closed: %v", err)
			return
		}
	}
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	return wsc.conn.WriteJSON(v)
}
