package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ember-server/internal/models"
)

func (h *StateHandler) setCustomization(c *gin.Context) {
	var req CustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	snapshot, err := h.service.SetCustomization(c.Request.Context(), models.CreatureCustomization{
		Name:   req.Name,
		Color:  req.Color,
		HasBow: req.HasBow,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.broadcast(snapshot)
	c.JSON(http.StatusOK, snapshot)
}

func (h *StateHandler) setTextColor(c *gin.Context) {
	var req TextColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	snapshot, err := h.service.SetTextColorPreference(c.Request.Context(), req.Color)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.broadcast(snapshot)
	c.JSON(http.StatusOK, snapshot)
}

func (h *StateHandler) setMicroSentenceIndex(c *gin.Context) {
	var req MicroSentenceIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	snapshot, err := h.service.SetMicroSentenceIndex(c.Request.Context(), *req.Index)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.broadcast(snapshot)
	c.JSON(http.StatusOK, snapshot)
}

func (h *StateHandler) nextMicroSentence(c *gin.Context) {
	sentence, snapshot := h.service.NextMicroSentence(c.Request.Context())
	h.broadcast(snapshot)
	c.JSON(http.StatusOK, MicroSentenceResponse{Sentence: sentence, Snapshot: snapshot})
}

// acknowledgeAnimation вызывается слоем отображения после показа переходной
// анимации: движок возвращает её в idle.
func (h *StateHandler) acknowledgeAnimation(c *gin.Context) {
	snapshot := h.service.AcknowledgeAnimation(c.Request.Context())
	h.broadcast(snapshot)
	c.JSON(http.StatusOK, snapshot)
}
