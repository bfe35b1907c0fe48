package handlers

import (
	"log"
	"net/http"

	"orbita/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

// respondError отдаёт любую ошибку, включая ошибки хранилища, со
// статусом 200 и структурированным телом: стабильный код, сообщение и
// trace_id для поиска в логах. Транспортная семантика апстримов наружу
// не протекает.
func respondError(c *gin.Context, err error) {
	traceID := uuid.New().String()
	log.Printf("request error [%s] %s: %v", traceID, c.FullPath(), err)

	c.JSON(http.StatusOK, gin.H{
		"ok": false,
		"error": gin.H{
			"code":     apperr.CodeOf(err),
			"message":  apperr.MessageOf(err),
			"trace_id": traceID,
		},
	})
}
