package routes

import (
	"fmt"
	"net/http"
	"strings"

	"study-material-platform/internal/apperr"
	"study-material-platform/internal/quiz"
	"study-material-platform/utils"

	"github.com/gin-gonic/gin"
)

const minBankQuestions = 3
const maxBankQuestions = 100
const minSessionQuestions = 5
const maxSessionQuestions = 10

type generateBankRequest struct {
	NumQuestions int    `json:"num_questions"`
	DocumentID   string `json:"document_id"`
	Topic        string `json:"topic"`
}

type startSessionRequest struct {
	QuizID       string `json:"quiz_id"`
	NumQuestions int    `json:"num_questions"`
}

type answerSessionRequest struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// SetupCompetitiveRoutes registers the adaptive-difficulty quiz engine's
// three operations: bank generation, session start, and answer grading.
func SetupCompetitiveRoutes(router *gin.Engine, engine *quiz.Engine) {
	router.POST("/competitive-quiz/generate-bank", func(c *gin.Context) {
		var req generateBankRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, apperr.BadInput("invalid request body", err))
			return
		}
		if req.NumQuestions < minBankQuestions || req.NumQuestions > maxBankQuestions {
			utils.RespondWithError(c, apperr.BadInput(
				fmt.Sprintf("num_questions must be between %d and %d", minBankQuestions, maxBankQuestions), nil))
			return
		}

		bank, err := engine.GenerateBank(c.Request.Context(), req.DocumentID, req.Topic, req.NumQuestions)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quiz_id": bank.QuizID, "question_bank": bank.Items})
	})

	router.POST("/competitive-quiz/start", func(c *gin.Context) {
		var req startSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, apperr.BadInput("invalid request body", err))
			return
		}
		if req.QuizID == "" {
			utils.RespondWithError(c, apperr.BadInput("quiz_id is required", nil))
			return
		}
		if req.NumQuestions < minSessionQuestions || req.NumQuestions > maxSessionQuestions {
			utils.RespondWithError(c, apperr.BadInput(
				fmt.Sprintf("num_questions must be between %d and %d", minSessionQuestions, maxSessionQuestions), nil))
			return
		}

		result, err := engine.Start(c.Request.Context(), req.QuizID, req.NumQuestions)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"session_id":        result.SessionID,
			"question":          result.FirstQuestion,
			"current_difficulty": result.CurrentDifficulty,
		})
	})

	router.POST("/competitive-quiz/answer", func(c *gin.Context) {
		var req answerSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, apperr.BadInput("invalid request body", err))
			return
		}
		if req.SessionID == "" || req.QuestionID == "" {
			utils.RespondWithError(c, apperr.BadInput("session_id and question_id are required", nil))
			return
		}
		answer := strings.ToUpper(strings.TrimSpace(req.Answer))
		if len(answer) != 1 || answer[0] < 'A' || answer[0] > 'D' {
			utils.RespondWithError(c, apperr.BadInput("answer must be a single letter A-D", nil))
			return
		}

		result, err := engine.Answer(c.Request.Context(), req.SessionID, req.QuestionID, answer)
		if err != nil {
			utils.RespondWithError(c, err)
			return
		}

		body := gin.H{
			"is_correct":     result.IsCorrect,
			"correct_answer": result.CorrectAnswer,
			"explanation":    result.Explanation,
			"reward":         result.Reward,
			"stats":          result.Stats,
			"is_complete":    result.IsComplete,
		}
		if !result.IsComplete {
			body["next_question"] = result.NextQuestion
			body["next_difficulty"] = result.NextDifficulty
		}
		c.JSON(http.StatusOK, body)
	})
}
