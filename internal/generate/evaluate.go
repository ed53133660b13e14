package generate

import (
	"context"
	"fmt"
	"strings"

	"study-material-platform/models"
)

// EvaluateAnswer judges a free-text short-answer response against the
// question's reference answer, since exact string matching is too
// brittle for open-ended phrasing.
func (s *Service) EvaluateAnswer(ctx context.Context, question, referenceAnswer, userAnswer string) (*models.AnswerEvaluation, error) {
	prompt := fmt.Sprintf(
		"Question: %s\nReference answer: %s\nStudent answer: %s\n\n"+
			"Judge whether the student answer is substantively correct, allowing for paraphrase, partial "+
			"phrasing, and minor omissions that do not change the core meaning. Then write one sentence of "+
			"feedback explaining the judgment.\n\n"+
			"Respond with ONLY a JSON object of the form:\n"+
			`{"is_correct":true|false,"feedback":"..."}`,
		question, referenceAnswer, userAnswer)

	var eval models.AnswerEvaluation
	err := generateJSON(ctx, s.completer, prompt, &eval, func() error {
		if strings.TrimSpace(eval.Feedback) == "" {
			return fmt.Errorf("feedback is empty")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &eval, nil
}
