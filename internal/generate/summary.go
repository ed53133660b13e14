package generate

import (
	"context"
	"fmt"
	"strings"

	"study-material-platform/internal/apperr"
	"study-material-platform/models"
)

// toleranceBand is the +-30% word-count tolerance applied around a
// SummaryLength's target.
const toleranceBand = 0.3

// Summary generates a titled summary with extracted key topics at the
// requested length.
func (s *Service) Summary(ctx context.Context, documentID string, length models.SummaryLength) (*models.Summary, error) {
	if length == "" {
		length = models.SummaryMedium
	}
	target := length.TargetWordCount()

	chunks, err := s.contextForGeneration(ctx, documentID, "overview and main points of this material")
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, apperr.NotFound("no retrievable content for this document", nil)
	}

	prompt := fmt.Sprintf(
		"Using ONLY the context below, write a summary of approximately %d words (between %d and %d words) "+
			"together with a short title and 3-6 key topics.\n\n"+
			"Respond with ONLY a JSON object of the form:\n"+
			`{"summary_title":"...","summary":"...","key_topics":["...","..."]}`+
			"\n\nContext:\n%s",
		target, lowerBound(target), upperBound(target), contextBlock(chunks))

	var summary models.Summary
	err = generateJSON(ctx, s.completer, prompt, &summary, func() error {
		return validateSummary(&summary, target)
	})
	if err != nil {
		return nil, err
	}
	summary.WordCount = wordCount(summary.Summary)
	return &summary, nil
}

func lowerBound(target int) int { return int(float64(target) * (1 - toleranceBand)) }
func upperBound(target int) int { return int(float64(target) * (1 + toleranceBand)) }

func validateSummary(s *models.Summary, target int) error {
	if strings.TrimSpace(s.Summary) == "" {
		return fmt.Errorf("summary text is empty")
	}
	if strings.TrimSpace(s.SummaryTitle) == "" {
		return fmt.Errorf("summary_title is empty")
	}
	if len(s.KeyTopics) == 0 {
		return fmt.Errorf("key_topics is empty")
	}
	if n := wordCount(s.Summary); n < lowerBound(target) || n > upperBound(target) {
		return fmt.Errorf("summary is %d words, outside the %d-%d band for a %d-word target",
			n, lowerBound(target), upperBound(target), target)
	}
	return nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
