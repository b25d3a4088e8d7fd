package httpapp

import (
	"net/http"
	"time"

	"github.com/cesargomez89/hummingbird/internal/constants"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/gorilla/websocket"
)

const (
	// Writes that take longer than this fail the connection.
	wsWriteWait = 10 * time.Second

	// The peer has this long between pongs before the read side gives up.
	wsPongWait = 60 * time.Second

	// Must be shorter than wsPongWait.
	wsPingPeriod = 30 * time.Second

	wsReadLimit = 4096
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Events streams the bus over a websocket. A new subscriber's channel
// starts with the retained state snapshot, so the client is current
// before the live stream begins. Slow clients lose oldest-first rather
// than stalling the engine.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("Websocket upgrade failed", "error", err)
		return
	}

	id, ch := h.Bus.Subscribe(constants.EventBufferSize)
	h.Logger.Info("Event stream connected", "subscriber", id.String(), "remote", r.RemoteAddr)

	go h.writeEvents(conn, ch)
	h.readUntilClose(conn)

	// Unsubscribe closes ch, which lets the write side drain and exit.
	h.Bus.Unsubscribe(id)
	h.Logger.Info("Event stream disconnected", "subscriber", id.String())
}

func (h *Handler) writeEvents(conn *websocket.Conn, ch <-chan events.Event) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-ch:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readUntilClose discards inbound frames. The stream is one way, but
// reading is what services pongs and surfaces the peer closing.
func (h *Handler) readUntilClose(conn *websocket.Conn) {
	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Warn("Websocket closed unexpectedly", "error", err)
			}
			return
		}
	}
}
