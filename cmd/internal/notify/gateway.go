package notify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsReadLimit    = 1 << 10
)

// Gateway upgrades HTTP requests to websocket sessions and streams hub
// events to each one until the peer disconnects.
type Gateway struct {
	log *slog.Logger
	hub *Hub

	// Cross-origin host patterns passed to websocket.Accept; empty means
	// same-host only.
	originPatterns []string
}

// NewGateway constructs a gateway over the given hub.
func NewGateway(log *slog.Logger, hub *Hub, originPatterns []string) *Gateway {
	return &Gateway{log: log, hub: hub, originPatterns: originPatterns}
}

// ServeHTTP runs one subscriber session.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: g.originPatterns,
	})
	if err != nil {
		g.log.Info("notify.accept.fail", "err", err, "remote", r.RemoteAddr)
		return
	}
	conn.SetReadLimit(wsReadLimit)

	clientID := newRandomHex(10)
	client := g.hub.Subscribe(clientID)
	defer g.hub.Unsubscribe(clientID)

	// Clients never send application frames; CloseRead keeps control frames
	// flowing and cancels the context when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "bye")
			return
		case <-client.Done():
			_ = conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		case ev := <-client.Send:
			if err := writeEvent(ctx, conn, ev); err != nil {
				g.log.Info("notify.write.fail", "client_id", clientID,
					"close_status", websocket.CloseStatus(err), "err", err)
				_ = conn.Close(websocket.StatusAbnormalClosure, "write failed")
				return
			}
		}
	}
}

func writeEvent(parent context.Context, conn *websocket.Conn, ev Event) error {
	ctx, cancel := context.WithTimeout(parent, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}

func newRandomHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
