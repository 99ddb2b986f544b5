package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pixelgram/pixelgram/internal/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = 512 * 1024
)

// wsTransport adapts a gorilla connection to the realtime transport.
type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) WriteMessage(data []byte) error {
	_ = t.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

// ServeWS upgrades GET /ws?userId=… and keeps the connection registered
// until the read loop observes a close. Inbound frames carry nothing the
// server acts on; all traffic flows server→client.
func (h *Handler) ServeWS(ctx *gin.Context) {
	userID := ctx.Query("userId")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "userId is required", "success": false})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error("ws upgrade", "error", err)
		return
	}
	conn.SetReadLimit(wsReadLimit)

	client := realtime.NewClient(userID, &wsTransport{conn: conn})
	h.hub.Register(client)

	go func() {
		defer h.hub.Unregister(client.ID())
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Warn("ws closed unexpectedly", "userId", userID, "error", err)
				}
				return
			}
		}
	}()
}
