package handlers

import (
	"orbita/internal/service"

	"github.com/gin-gonic/gin"
)

type ISSHandler struct {
	service service.ISSService
}

func NewISSHandler(service service.ISSService) *ISSHandler {
	return &ISSHandler{service: service}
}

func (h *ISSHandler) GetLast(c *gin.Context) {
	ctx := c.Request.Context()

	position, err := h.service.GetLastPosition(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if position == nil {
		respondOK(c, gin.H{"message": "no data"})
		return
	}
	respondOK(c, position)
}

func (h *ISSHandler) GetTrend(c *gin.Context) {
	ctx := c.Request.Context()

	trend, err := h.service.GetTrend(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, trend)
}

// TriggerFetch выполняет fetch+persist немедленно, в обход
// advisory-блокировки: возможная гонка с плановым тиком принимается —
// лог append-only, обе записи сохраняются.
func (h *ISSHandler) TriggerFetch(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.service.FetchAndStore(ctx); err != nil {
		respondError(c, err)
		return
	}
	h.GetLast(c)
}
