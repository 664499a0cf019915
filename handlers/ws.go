// handlers/ws.go - Websocket stream of achievement unlocks
package handlers

import (
	"time"

	"hadithhub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// RequireWebSocketUpgrade rejects plain HTTP requests to websocket routes.
func RequireWebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ProgressStream pushes UnlockEvents to the authenticated user.
// GET /ws/progress
func ProgressStream(hub *services.UnlockHub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		raw, _ := conn.Locals("userId").(string)
		userID, err := uuid.Parse(raw)
		if err != nil {
			conn.Close()
			return
		}

		sub := hub.Subscribe(userID)
		defer hub.Unsubscribe(sub)
		progressLog.Debug("progress stream opened", "user_id", userID)

		// The client never sends anything meaningful; reading detects close.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(wsPingPeriod)
		defer ping.Stop()
		for {
			select {
			case <-closed:
				progressLog.Debug("progress stream closed", "user_id", userID)
				return
			case evt, ok := <-sub.C:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	})
}
