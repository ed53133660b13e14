package middleware

import (
	"fmt"

	"study-material-platform/internal/apperr"
	"study-material-platform/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimit rejects requests whose Content-Length exceeds maxSize,
// used to enforce the PDF upload size bound ahead of multipart parsing.
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.RespondWithError(c, apperr.BadInput(
				fmt.Sprintf("request body exceeds maximum size of %d bytes", maxSize), nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
