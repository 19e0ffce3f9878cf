package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ember-server/internal/models"
	"ember-server/internal/service"
	"ember-server/internal/ws"
)

// StateHandler обслуживает HTTP API движка состояния.
type StateHandler struct {
	service  service.StateService
	hub      *ws.Manager // Может быть nil: тогда рассылка снимков отключена
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewStateHandler создаёт обработчик. Список allowedOrigins используется
// для проверки Origin при установке WebSocket-соединения.
func NewStateHandler(svc service.StateService, hub *ws.Manager, allowedOrigins []string, logger *zap.Logger) *StateHandler {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[origin] = struct{}{}
	}
	return &StateHandler{
		service: svc,
		hub:     hub,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Не браузер: curl, тесты, локальные инструменты
					return true
				}
				_, ok := originSet[origin]
				return ok
			},
		},
	}
}

// RegisterRoutes вешает маршруты API на роутер.
func (h *StateHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/state", h.getState)
		api.POST("/state/reload", h.reloadState)
		api.POST("/state/clear", h.clearState)

		api.GET("/logs", h.listLogs)
		api.POST("/logs", h.addLog)
		api.DELETE("/logs/:id", h.deleteLog)

		api.PUT("/customization", h.setCustomization)
		api.PUT("/preferences/text-color", h.setTextColor)
		api.PUT("/micro-sentence", h.setMicroSentenceIndex)
		api.POST("/micro-sentence/next", h.nextMicroSentence)
		api.POST("/animation/ack", h.acknowledgeAnimation)

		api.GET("/storage", h.storageStatus)
		api.GET("/reference", h.reference)
		api.GET("/export", h.exportState)
		api.POST("/import", h.importState)
	}
	router.GET("/ws", h.serveWS)
}

// broadcast отдаёт свежий снимок всем WebSocket-подключениям.
func (h *StateHandler) broadcast(snapshot models.Snapshot) {
	if h.hub != nil {
		h.hub.BroadcastSnapshot(snapshot)
	}
}

func (h *StateHandler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Snapshot(c.Request.Context()))
}

// reloadState повторно выполняет инициализацию из хранилища. Полезно после
// восстановления файла базы внешними средствами.
func (h *StateHandler) reloadState(c *gin.Context) {
	snapshot := h.service.Initialize(c.Request.Context())
	h.broadcast(snapshot)
	c.JSON(http.StatusOK, snapshot)
}

func (h *StateHandler) clearState(c *gin.Context) {
	snapshot := h.service.ClearAll(c.Request.Context())
	h.broadcast(snapshot)
	c.JSON(http.StatusOK, snapshot)
}

func (h *StateHandler) storageStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.StorageStatus(c.Request.Context()))
}
