package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ember-server/internal/models"
	"ember-server/internal/service"
)

// listLogs отдаёт записи в хронологическом порядке. Порядок хранения не
// обязан совпадать с хронологией, поэтому сортировка выполняется здесь.
func (h *StateHandler) listLogs(c *gin.Context) {
	snapshot := h.service.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, LogListResponse{Logs: models.ChronologicalLogs(snapshot.Logs)})
}

func (h *StateHandler) addLog(c *gin.Context) {
	var req AddLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	snapshot, err := h.service.AddLog(c.Request.Context(), service.AddLogInput{
		Text:         req.Text,
		Action:       models.EmotionAction(req.Action),
		TextColor:    req.TextColor,
		QuickEmotion: req.QuickEmotion,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.broadcast(snapshot)
	c.JSON(http.StatusCreated, snapshot)
}

// deleteLog удаляет запись по идентификатору. Неизвестный идентификатор не
// ошибка: операция холостая, клиент получает актуальный снимок.
func (h *StateHandler) deleteLog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleServiceError(c, fmt.Errorf("%w: bad log id %q", models.ErrValidation, c.Param("id")))
		return
	}

	snapshot := h.service.DeleteLog(c.Request.Context(), id)
	h.broadcast(snapshot)
	c.JSON(http.StatusOK, snapshot)
}
