package routes

import (
	"fmt"
	"net/http"

	"study-material-platform/internal/apperr"
	"study-material-platform/internal/generate"
	"study-material-platform/models"
	"study-material-platform/utils"

	"github.com/gin-gonic/gin"
)

const minQuizQuestions = 5
const maxQuizQuestions = 50

type quizRequest struct {
	DocumentID    string   `json:"document_id"`
	NumQuestions  int      `json:"num_questions"`
	QuestionTypes []string `json:"question_types"`
}

type evaluateRequest struct {
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Question      string `json:"question"`
}

type summaryRequest struct {
	DocumentID string `json:"document_id"`
	Length     string `json:"length"`
}

type flashcardsRequest struct {
	DocumentID     string `json:"document_id"`
	NumFlashcards  int    `json:"num_flashcards"`
}

// SetupStudyRoutes registers the document-scoped content generators:
// quiz, answer evaluation, summary, and flashcards.
func SetupStudyRoutes(router *gin.Engine, generator *generate.Service) {
	router.POST("/quiz", func(c *gin.Context) {
		var req quizRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, apperr.BadInput("invalid request body", err))
			return
		}
		if req.DocumentID == "" {
			utils.RespondWithError(c, apperr.BadInput("document_id is required", nil))
			return
		}
		if req.NumQuestions < minQuizQuestions || req.NumQuestions > maxQuizQuestions {
			utils.RespondWithError(c, apperr.BadInput(
				fmt.Sprintf("num_questions must be between %d and %d", minQuizQuestions, maxQuizQuestions), nil))
			return
		}
		types, err := parseQuestionTypes(req.QuestionTypes)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}

		quiz, err := generator.Quiz(c.Request.Context(), req.DocumentID, req.NumQuestions, types)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quiz": quiz})
	})

	router.POST("/quiz/evaluate-answer", func(c *gin.Context) {
		var req evaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, apperr.BadInput("invalid request body", err))
			return
		}
		if req.Question == "" || req.CorrectAnswer == "" {
			utils.RespondWithError(c, apperr.BadInput("question and correct_answer are required", nil))
			return
		}

		eval, err := generator.EvaluateAnswer(c.Request.Context(), req.Question, req.CorrectAnswer, req.UserAnswer)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"is_correct": eval.IsCorrect, "feedback": eval.Feedback})
	})

	router.POST("/summary", func(c *gin.Context) {
		var req summaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, apperr.BadInput("invalid request body", err))
			return
		}
		if req.DocumentID == "" {
			utils.RespondWithError(c, apperr.BadInput("document_id is required", nil))
			return
		}
		length, err := parseSummaryLength(req.Length)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}

		summary, err := generator.Summary(c.Request.Context(), req.DocumentID, length)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"summary": summary})
	})

	router.POST("/flashcards", func(c *gin.Context) {
		var req flashcardsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, apperr.BadInput("invalid request body", err))
			return
		}
		if req.DocumentID == "" {
			utils.RespondWithError(c, apperr.BadInput("document_id is required", nil))
			return
		}

		set, err := generator.Flashcards(c.Request.Context(), req.DocumentID, req.NumFlashcards)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"flashcards": set})
	})
}

func parseQuestionTypes(raw []string) ([]models.QuestionType, error) {
	if len(raw) == 0 {
		return nil, apperr.BadInput("question_types must be a non-empty array", nil)
	}
	types := make([]models.QuestionType, 0, len(raw))
	for _, t := range raw {
		switch models.QuestionType(t) {
		case models.QuestionMultipleChoice, models.QuestionShortAnswer:
			types = append(types, models.QuestionType(t))
		default:
			return nil, apperr.BadInput(fmt.Sprintf("unknown question_type %q", t), nil)
		}
	}
	return types, nil
}

func parseSummaryLength(raw string) (models.SummaryLength, error) {
	switch models.SummaryLength(raw) {
	case "":
		return models.SummaryMedium, nil
	case models.SummaryShort, models.SummaryMedium, models.SummaryLong:
		return models.SummaryLength(raw), nil
	default:
		return "", apperr.BadInput(fmt.Sprintf("unknown length %q", raw), nil)
	}
}
