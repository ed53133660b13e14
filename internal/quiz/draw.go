package quiz

import "study-material-platform/models"

var fallbackOrder = []models.Difficulty{models.DifficultyMedium, models.DifficultyLow, models.DifficultyHard}

// drawQuestion picks an unused bank item at the preferred difficulty,
// falling back in order medium -> low -> hard -> any unused item. It
// returns nil if the bank has no unused items left.
func drawQuestion(items []models.BankQuestion, used map[string]struct{}, preferred models.Difficulty) *models.BankQuestion {
	if q := firstUnusedAt(items, used, preferred); q != nil {
		return q
	}
	for _, d := range fallbackOrder {
		if d == preferred {
			continue
		}
		if q := firstUnusedAt(items, used, d); q != nil {
			return q
		}
	}
	for i := range items {
		if _, seen := used[items[i].QuestionID]; !seen {
			return &items[i]
		}
	}
	return nil
}

func firstUnusedAt(items []models.BankQuestion, used map[string]struct{}, difficulty models.Difficulty) *models.BankQuestion {
	for i := range items {
		if items[i].Difficulty != difficulty {
			continue
		}
		if _, seen := used[items[i].QuestionID]; seen {
			continue
		}
		return &items[i]
	}
	return nil
}
