package app

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

const wsWriteTimeout = 5 * time.Second

// handleWS upgrades to a websocket and streams every completed fetch as JSON.
// Messages from the client are read only to notice the disconnect.
func (a *App) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Warn("ws upgrade failed", "err", err)
		return
	}
	events, cancel := a.Sensors.Subscribe(16)
	a.addClient(conn)
	a.log.Info("ws client connected", "remote", r.RemoteAddr)

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer func() {
			a.removeClient(conn)
			if err := conn.Close(); err != nil {
				a.log.Debug("ws close", "err", err)
			}
			a.log.Info("ws client disconnected", "remote", r.RemoteAddr)
		}()
		for ev := range events {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				cancel()
				return
			}
		}
	}()
}

func (a *App) addClient(conn *websocket.Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clients[conn] = struct{}{}
}

func (a *App) removeClient(conn *websocket.Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.clients, conn)
}

// closeClients sends a close frame to every client; their loops then exit.
func (a *App) closeClients() {
	a.mu.Lock()
	defer a.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range a.clients {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = conn.Close()
	}
}
