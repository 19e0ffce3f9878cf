package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ember-server/internal/models"
)

// reference отдаёт справочные данные: палитру, метки быстрых эмоций и
// ограничения ввода. Слой отображения строит по ним формы.
func (h *StateHandler) reference(c *gin.Context) {
	c.JSON(http.StatusOK, ReferenceResponse{
		Palette:            models.Palette,
		QuickEmotions:      models.QuickEmotions,
		MicroSentenceCount: len(models.MicroSentences),
		LogTextMaxLen:      models.LogTextMaxLen,
		NameMaxLen:         models.NameMaxLen,
		DefaultTextColor:   models.DefaultTextColor,
	})
}

func (h *StateHandler) exportState(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Export(c.Request.Context()))
}

// importState восстанавливает состояние из дампа. Дамп проверяется целиком
// до применения: частичный импорт невозможен.
func (h *StateHandler) importState(c *gin.Context) {
	var bundle models.ExportBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	snapshot, err := h.service.Import(c.Request.Context(), bundle)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.broadcast(snapshot)
	c.JSON(http.StatusOK, snapshot)
}
