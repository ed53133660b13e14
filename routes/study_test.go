package routes

import (
	"net/http"
	"testing"

	"study-material-platform/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newStudyTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupStudyRoutes(r, nil)
	return r
}

func TestQuizRejectsMissingDocumentID(t *testing.T) {
	r := newStudyTestRouter()
	w := postJSON(r, "/quiz", `{"num_questions":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizRejectsOutOfRangeQuestionCount(t *testing.T) {
	r := newStudyTestRouter()
	w := postJSON(r, "/quiz", `{"document_id":"doc-1","num_questions":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizRejectsZeroQuestionCount(t *testing.T) {
	r := newStudyTestRouter()
	w := postJSON(r, "/quiz", `{"document_id":"doc-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizRejectsUnknownQuestionType(t *testing.T) {
	r := newStudyTestRouter()
	w := postJSON(r, "/quiz", `{"document_id":"doc-1","question_types":["essay"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluateAnswerRejectsMissingFields(t *testing.T) {
	r := newStudyTestRouter()
	w := postJSON(r, "/quiz/evaluate-answer", `{"user_answer":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryRejectsMissingDocumentID(t *testing.T) {
	r := newStudyTestRouter()
	w := postJSON(r, "/summary", `{"length":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryRejectsUnknownLength(t *testing.T) {
	r := newStudyTestRouter()
	w := postJSON(r, "/summary", `{"document_id":"doc-1","length":"epic"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlashcardsRejectsMissingDocumentID(t *testing.T) {
	r := newStudyTestRouter()
	w := postJSON(r, "/flashcards", `{"num_flashcards":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseQuestionTypesRejectsEmpty(t *testing.T) {
	_, err := parseQuestionTypes(nil)
	assert.Error(t, err)
}

func TestParseQuestionTypesAcceptsKnownTypes(t *testing.T) {
	types, err := parseQuestionTypes([]string{"multiple_choice", "short_answer"})
	assert.NoError(t, err)
	assert.Equal(t, []models.QuestionType{models.QuestionMultipleChoice, models.QuestionShortAnswer}, types)
}

func TestParseSummaryLengthDefaultsToMedium(t *testing.T) {
	length, err := parseSummaryLength("")
	assert.NoError(t, err)
	assert.Equal(t, models.SummaryMedium, length)
}

func TestParseSummaryLengthRejectsUnknown(t *testing.T) {
	_, err := parseSummaryLength("novella")
	assert.Error(t, err)
}
