package live

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/staff-management-api/internal/constants"
)

const (
	writeWait      = 10 * time.Second
	maxInboundSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) WriteJSON(v any) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// Handler upgrades the request and keeps the connection registered until
// the client goes away. Inbound frames are ignored.
func Handler(b *Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the error response.
			log.WithError(err).Debug("websocket upgrade failed")
			return
		}
		conn := &wsConn{conn: ws}
		b.Register(conn)
		logger := log.WithField("remote", c.ClientIP())
		if userID, ok := c.Get(constants.ContextKeyUserID); ok {
			logger = logger.WithField("user_id", userID)
		}
		logger.Debug("live connection opened")

		defer func() {
			b.Unregister(conn)
			_ = conn.Close()
			logger.Debug("live connection closed")
		}()

		ws.SetReadLimit(maxInboundSize)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
					logger.WithError(err).Warn("live connection read error")
				}
				return
			}
		}
	}
}
