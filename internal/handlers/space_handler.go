package handlers

import (
	"strings"

	"orbita/internal/service"

	"github.com/gin-gonic/gin"
)

type SpaceHandler struct {
	service service.SpaceService
}

func NewSpaceHandler(service service.SpaceService) *SpaceHandler {
	return &SpaceHandler{service: service}
}

func (h *SpaceHandler) GetLatest(c *gin.Context) {
	ctx := c.Request.Context()
	source := c.Param("source")

	entry, err := h.service.GetLatest(ctx, source)
	if err != nil {
		respondError(c, err)
		return
	}
	if entry == nil {
		respondOK(c, gin.H{"source": source, "message": "no data"})
		return
	}
	respondOK(c, gin.H{
		"source":     source,
		"fetched_at": entry.FetchedAt,
		"payload":    entry.Payload,
	})
}

// Refresh — ручное обновление без advisory-блокировки. В ответе только
// список источников, которые пытались обновить; успех проверяется
// повторным чтением latest.
func (h *SpaceHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	list := c.DefaultQuery("src", strings.Join(service.Sources, ","))
	refreshed := h.service.Refresh(ctx, strings.Split(list, ","))

	respondOK(c, gin.H{"refreshed": refreshed})
}

func (h *SpaceHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.service.GetSummary(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}
