package generate

import (
	"context"
	"fmt"
	"strings"

	"study-material-platform/internal/apperr"
	"study-material-platform/models"

	"github.com/google/uuid"
)

const defaultBankQuestions = 24

// GenerateBank builds a difficulty-stratified question pool backing a
// competitive quiz session. Every item is multiple-choice with options
// labeled A-D; the distribution across {low, medium, hard} is
// approximately ceil(numQuestions/3) each. documentID is optional; when
// empty the bank is generated from topic alone using the completer's
// general knowledge.
func (s *Service) GenerateBank(ctx context.Context, documentID, topic string, numQuestions int) (*models.QuestionBank, error) {
	if numQuestions <= 0 {
		numQuestions = defaultBankQuestions
	}
	if documentID == "" && topic == "" {
		return nil, apperr.BadInput("either document_id or topic is required", nil)
	}
	perDifficulty := (numQuestions + 2) / 3 // ceil(n/3)

	var contextText string
	if documentID != "" {
		chunks, err := s.contextForGeneration(ctx, documentID, topic)
		if err != nil {
			return nil, err
		}
		if len(chunks) == 0 {
			return nil, apperr.NotFound("no retrievable content for this document", nil)
		}
		contextText = contextBlock(chunks)
	} else {
		contextText = fmt.Sprintf("Topic: %s", topic)
	}

	bank := &models.QuestionBank{
		QuizID:     uuid.NewString(),
		DocumentID: documentID,
		Topic:      topic,
	}

	for _, d := range models.AllDifficulties {
		items, err := s.bankItemsForDifficulty(ctx, contextText, d, perDifficulty)
		if err != nil {
			return nil, err
		}
		bank.Items = append(bank.Items, items...)
	}
	return bank, nil
}

func (s *Service) bankItemsForDifficulty(ctx context.Context, contextText string, difficulty models.Difficulty, count int) ([]models.BankQuestion, error) {
	prompt := fmt.Sprintf(
		"Using the context below, write exactly %d %s-difficulty multiple-choice competitive-quiz questions. "+
			"Each question has exactly 4 options labeled A, B, C, D in the options array (in that order, without "+
			"the letter prefix in the option text itself), with correct_answer set to the single letter (A, B, C, "+
			"or D) of the right option. Every question needs a one-line hint and a one-sentence explanation.\n\n"+
			"Respond with ONLY a JSON object of the form:\n"+
			`{"items":[{"question":"...","options":["...","...","...","..."],`+
			`"correct_answer":"A","hint":"...","explanation":"..."}]}`+
			"\n\nContext:\n%s", count, difficulty, contextText)

	var payload struct {
		Items []models.BankQuestion `json:"items"`
	}
	err := generateJSON(ctx, s.completer, prompt, &payload, func() error {
		return validateBankItems(payload.Items)
	})
	if err != nil {
		return nil, err
	}

	for i := range payload.Items {
		payload.Items[i].QuestionID = uuid.NewString()
		payload.Items[i].Difficulty = difficulty
		payload.Items[i].Type = models.QuestionMultipleChoice
		payload.Items[i].CorrectAnswer = strings.ToUpper(strings.TrimSpace(payload.Items[i].CorrectAnswer))
	}
	return payload.Items, nil
}

func validateBankItems(items []models.BankQuestion) error {
	if len(items) == 0 {
		return fmt.Errorf("no items generated")
	}
	for i := range items {
		item := &items[i]
		if item.Question == "" {
			return fmt.Errorf("item %d missing question text", i)
		}
		if len(item.Options) != 4 {
			return fmt.Errorf("item %d: requires exactly 4 options, got %d", i, len(item.Options))
		}
		if !distinctOptions(item.Options) {
			return fmt.Errorf("item %d: options must be 4 distinct strings", i)
		}
		letter := strings.ToUpper(strings.TrimSpace(item.CorrectAnswer))
		if !isValidLetter(letter) {
			return fmt.Errorf("item %d: correct_answer %q is not one of A-D", i, item.CorrectAnswer)
		}
	}
	return nil
}

func isValidLetter(letter string) bool {
	for _, l := range optionLetters {
		if l == letter {
			return true
		}
	}
	return false
}

// distinctOptions reports whether every option text is unique,
// satisfying the §3 BankQuestion invariant of 4 distinct strings.
func distinctOptions(options []string) bool {
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		key := strings.ToLower(strings.TrimSpace(opt))
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}
