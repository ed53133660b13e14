package generate

import (
	"context"
	"fmt"
	"strings"

	"study-material-platform/internal/apperr"
	"study-material-platform/models"
)

const defaultFlashcardCount = 10

// Flashcards generates a titled set of front/back study cards grouped
// loosely by category.
func (s *Service) Flashcards(ctx context.Context, documentID string, count int) (*models.FlashcardSet, error) {
	if count <= 0 {
		count = defaultFlashcardCount
	}

	chunks, err := s.contextForGeneration(ctx, documentID, "important terms, facts, and relationships in this material")
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, apperr.NotFound("no retrievable content for this document", nil)
	}

	prompt := fmt.Sprintf(
		"Using ONLY the context below, write exactly %d flashcards. Each card has a short front (a term or "+
			"question), a back (the answer or definition), and a one or two word category label grouping related "+
			"cards.\n\n"+
			"Respond with ONLY a JSON object of the form:\n"+
			`{"flashcard_set_title":"...","flashcards":[{"front":"...","back":"...","category":"..."}]}`+
			"\n\nContext:\n%s", count, contextBlock(chunks))

	var set models.FlashcardSet
	err = generateJSON(ctx, s.completer, prompt, &set, func() error {
		return validateFlashcards(&set)
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func validateFlashcards(set *models.FlashcardSet) error {
	if strings.TrimSpace(set.FlashcardSetTitle) == "" {
		return fmt.Errorf("flashcard_set_title is empty")
	}
	if len(set.Flashcards) == 0 {
		return fmt.Errorf("flashcards is empty")
	}
	for i, card := range set.Flashcards {
		if strings.TrimSpace(card.Front) == "" || strings.TrimSpace(card.Back) == "" {
			return fmt.Errorf("flashcard %d missing front or back", i)
		}
	}
	return nil
}
