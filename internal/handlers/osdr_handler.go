package handlers

import (
	"strconv"

	"orbita/internal/service"

	"github.com/gin-gonic/gin"
)

type OSDRHandler struct {
	service service.OSDRService
}

func NewOSDRHandler(service service.OSDRService) *OSDRHandler {
	return &OSDRHandler{service: service}
}

// Sync запускает синхронизацию каталога немедленно, без
// advisory-блокировки; с плановым тиком гонку разрешает идемпотентный
// upsert.
func (h *OSDRHandler) Sync(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.service.Sync(ctx); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": "ok"})
}

func (h *OSDRHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	items, err := h.service.List(ctx, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": items})
}
