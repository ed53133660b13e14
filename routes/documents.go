package routes

import (
	"io"
	"net/http"
	"strings"

	"study-material-platform/internal/apperr"
	"study-material-platform/internal/ingest"
	"study-material-platform/utils"

	"github.com/gin-gonic/gin"
)

// SetupDocumentRoutes registers upload and listing for ingested
// documents.
func SetupDocumentRoutes(router *gin.Engine, ingestSvc *ingest.Service) {
	router.POST("/upload", func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			utils.RespondWithError(c, apperr.BadInput("expected a multipart/form-data body", err))
			return
		}

		fileHeaders := form.File["files[]"]
		if len(fileHeaders) == 0 {
			fileHeaders = form.File["files"]
		}
		if len(fileHeaders) == 0 {
			utils.RespondWithError(c, apperr.BadInput("at least one file is required under files[]", nil))
			return
		}

		files := make([]ingest.File, 0, len(fileHeaders))
		for _, fh := range fileHeaders {
			f, err := fh.Open()
			if err != nil {
				utils.RespondWithError(c, apperr.BadInput("failed to read uploaded file "+fh.Filename, err))
				return
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				utils.RespondWithError(c, apperr.BadInput("failed to read uploaded file "+fh.Filename, err))
				return
			}
			files = append(files, ingest.File{Filename: fh.Filename, Content: content})
		}

		result, err := ingestSvc.Ingest(c.Request.Context(), files)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"document_id":    result.DocumentID,
			"filename":       strings.Join(result.Filenames, ", "),
			"page_count":     result.PageCount,
			"chunks_created": result.ChunksCreated,
		})
	})

	router.GET("/documents/list", func(c *gin.Context) {
		infos, err := ingestSvc.ListDocuments(c.Request.Context())
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}

		documents := make([]gin.H, 0, len(infos))
		for _, info := range infos {
			documents = append(documents, gin.H{
				"document_id":  info.Namespace,
				"filename":     info.Filename,
				"vector_count": info.VectorCount,
			})
		}
		c.JSON(http.StatusOK, gin.H{"documents": documents})
	})
}
