package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ember-server/internal/models"
	"ember-server/internal/ws"
)

// serveWS обновляет соединение до WebSocket и запускает насосы клиента.
// Дальше клиент получает снимок состояния после каждой мутации.
func (h *StateHandler) serveWS(c *gin.Context) {
	if h.hub == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "websocket is disabled"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader уже ответил клиенту сам
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := ws.NewClient(uuid.NewString(), conn)
	h.hub.RegisterClient(client)
	go client.WritePump(h.logger)
	go client.ReadPump(h.hub, h.logger)

	// Свежеподключённый клиент сразу получает актуальный снимок.
	h.hub.BroadcastSnapshot(h.service.Snapshot(c.Request.Context()))
}
