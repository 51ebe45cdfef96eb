package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/notify"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// RealtimeHandler upgrades connections and streams notification events to
// the authenticated user.
type RealtimeHandler struct {
	hub    notify.Hub
	logger *zap.Logger
}

// NewRealtimeHandler constructs handler.
func NewRealtimeHandler(hub notify.Hub, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, logger: logger}
}

const wsUserKey = "ws_user_id"

// Upgrade gates the websocket handshake. The user id is captured before the
// upgrade because fiber locals do not survive into the websocket handler.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	c.Locals(wsUserKey, principal.User.ID)
	return c.Next()
}

// Stream is the websocket session loop: subscribe to the hub and forward
// events until the client disconnects.
func (h *RealtimeHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(wsUserKey).(string)
		if userID == "" {
			_ = conn.Close()
			return
		}

		events, cancel := h.hub.Subscribe(userID)
		defer cancel()

		// Reader goroutine: its only job is to notice the disconnect.
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
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					h.logger.Debug("websocket write failed",
						zap.String("user_id", userID),
						zap.Error(err),
					)
					return
				}
			case <-done:
				return
			}
		}
	})
}
