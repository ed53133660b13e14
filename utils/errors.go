package utils

import (
	"study-material-platform/internal/apperr"

	"github.com/gin-gonic/gin"
)

// errorBody is the one-line response shape every error path returns.
type errorBody struct {
	Detail string `json:"detail"`
}

// RespondWithError translates an apperr.Error into its HTTP status and
// one-line body. This is the single place that translation happens.
func RespondWithError(c *gin.Context, err error) {
	e := apperr.As(err)
	c.JSON(e.Status(), errorBody{Detail: e.Detail()})
}
