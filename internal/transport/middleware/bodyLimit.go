package middleware

import (
	"net/http"

	"github.com/ds124wfegd/imagehist/internal/entity"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects requests whose declared length exceeds limit and caps
// the rest with http.MaxBytesReader.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": entity.ErrFileTooLarge.Error()})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
