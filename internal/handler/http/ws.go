package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/internal/adapter/presence"
	"github.com/webitel/timecapsule/internal/handler/http/httperr"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/service/auth"
)

// WSHandler upgrades a connection and registers it with the presence Hub for
// the lifetime of the socket. Capsule-ready events reach it via Hub.Push
// from the Notifier's composite leg; nothing is read back from the client.
type WSHandler struct {
	logger   *zap.Logger
	auth     *auth.Service
	hub      *presence.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(logger *zap.Logger, authSvc *auth.Service, hub *presence.Hub) *WSHandler {
	return &WSHandler{
		logger: logger,
		auth:   authSvc,
		hub:    hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httperr.Write(w, domainerr.Forbidden("missing token query parameter"))
		return
	}
	principal, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WS_UPGRADE_FAILED", zap.Error(err))
		return
	}
	defer conn.Close()

	wsConn := presence.NewWSConnection(conn)
	h.hub.Register(principal.ID, wsConn)
	defer h.hub.Unregister(principal.ID, wsConn.GetID())

	h.logger.Info("WS_OPENED", zap.String("user_id", principal.ID.String()))

	// This socket only pushes server -> client events; reads exist solely to
	// detect the client closing the connection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.logger.Info("WS_CLOSED", zap.String("user_id", principal.ID.String()))
			return
		}
	}
}
