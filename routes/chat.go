package routes

import (
	"net/http"

	"study-material-platform/internal/apperr"
	"study-material-platform/internal/qa"
	"study-material-platform/utils"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
}

// SetupChatRoutes registers the grounded question-answering endpoint.
func SetupChatRoutes(router *gin.Engine, qaSvc *qa.Service) {
	router.POST("/chat", func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, apperr.BadInput("invalid request body", err))
			return
		}
		if req.Question == "" || req.DocumentID == "" {
			utils.RespondWithError(c, apperr.BadInput("question and document_id are required", nil))
			return
		}

		answer, err := qaSvc.Answer(c.Request.Context(), req.DocumentID, req.Question)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}

		body := gin.H{
			"answer":        answer.Answer,
			"sources":       answer.Sources,
			"from_document": answer.FromDocument,
		}
		if req.Filename != "" {
			body["filename"] = req.Filename
		}
		c.JSON(http.StatusOK, body)
	})
}
