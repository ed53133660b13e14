package generate

import (
	"context"
	"fmt"
	"strings"

	"study-material-platform/internal/apperr"
	"study-material-platform/models"
)

const defaultQuizCount = 5

// Quiz generates a short quiz grounded in the document, restricted to
// the requested question types.
func (s *Service) Quiz(ctx context.Context, documentID string, count int, allowedTypes []models.QuestionType) (*models.Quiz, error) {
	if count <= 0 {
		count = defaultQuizCount
	}
	if len(allowedTypes) == 0 {
		allowedTypes = []models.QuestionType{models.QuestionMultipleChoice, models.QuestionShortAnswer}
	}

	chunks, err := s.contextForGeneration(ctx, documentID, "key concepts and facts covered in this material")
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, apperr.NotFound("no retrievable content for this document", nil)
	}

	prompt := fmt.Sprintf(
		"Using ONLY the context below, write exactly %d quiz questions covering distinct facts from the material. "+
			"Use only these question_type values: %s. Each multiple_choice question must have exactly 4 options "+
			"with correct_answer equal to one of them verbatim; short_answer questions omit options and "+
			"correct_answer. Every question needs a one-line hint and a one-sentence explanation of the answer.\n\n"+
			"Respond with ONLY a JSON object of the form:\n"+
			`{"questions":[{"question":"...","question_type":"multiple_choice|short_answer",`+
			`"options":["...","...","...","..."],"correct_answer":"...","hint":"...","explanation":"..."}]}`+
			"\n\nContext:\n%s", count, typeList(allowedTypes), contextBlock(chunks))

	var quiz models.Quiz
	err = generateJSON(ctx, s.completer, prompt, &quiz, func() error {
		return validateQuiz(&quiz, allowedTypes)
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func typeList(types []models.QuestionType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func validateQuiz(q *models.Quiz, allowedTypes []models.QuestionType) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	for i := range q.Questions {
		item := &q.Questions[i]
		if item.Question == "" {
			return fmt.Errorf("question %d missing text", i)
		}
		if !typeAllowed(item.Type, allowedTypes) {
			return fmt.Errorf("question %d: question_type %q is not among the requested types", i, item.Type)
		}
		switch item.Type {
		case models.QuestionMultipleChoice:
			if len(item.Options) != 4 {
				return fmt.Errorf("question %d: multiple_choice requires 4 options, got %d", i, len(item.Options))
			}
			if item.CorrectAnswer == "" {
				return fmt.Errorf("question %d: multiple_choice requires correct_answer", i)
			}
			found := false
			for _, opt := range item.Options {
				if opt == item.CorrectAnswer {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("question %d: correct_answer not among options", i)
			}
		case models.QuestionShortAnswer:
			// no further constraints.
		default:
			return fmt.Errorf("question %d: unknown question_type %q", i, item.Type)
		}
	}
	return nil
}

func typeAllowed(t models.QuestionType, allowed []models.QuestionType) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}
