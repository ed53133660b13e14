package quiz

import "study-material-platform/models"

// tieBreakOrder is the order in which argmax ties are broken for the
// Q-policy: medium first, then low, then hard.
var tieBreakOrder = []models.Difficulty{models.DifficultyMedium, models.DifficultyLow, models.DifficultyHard}

// trend computes trend_t from the last up to 3 answered turns.
func trend(history []models.AnsweredTurn) models.Trend {
	n := len(history)
	if n > 3 {
		n = 3
	}
	if n < 2 {
		return models.TrendStable
	}
	window := history[len(history)-n:]
	correct, incorrect := 0, 0
	for _, turn := range window {
		if turn.IsCorrect {
			correct++
		} else {
			incorrect++
		}
	}
	switch {
	case correct >= 2:
		return models.TrendImproving
	case incorrect >= 2:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// qValue returns Q(state, action), defaulting unknown entries to 0.
func qValue(table map[models.StateKey]map[models.Difficulty]float64, state models.StateKey, action models.Difficulty) float64 {
	row, ok := table[state]
	if !ok {
		return 0
	}
	return row[action]
}

// maxQ returns max_a Q(state, a) over the full action set.
func maxQ(table map[models.StateKey]map[models.Difficulty]float64, state models.StateKey) float64 {
	best := qValue(table, state, models.AllDifficulties[0])
	for _, a := range models.AllDifficulties[1:] {
		if v := qValue(table, state, a); v > best {
			best = v
		}
	}
	return best
}

// argmaxQ returns the action with the highest Q(state, a), breaking ties
// via tieBreakOrder.
func argmaxQ(table map[models.StateKey]map[models.Difficulty]float64, state models.StateKey) models.Difficulty {
	best := tieBreakOrder[0]
	bestVal := qValue(table, state, best)
	for _, a := range tieBreakOrder[1:] {
		if v := qValue(table, state, a); v > bestVal {
			bestVal = v
			best = a
		}
	}
	return best
}

// updateQ applies the Bellman update for one observed transition.
func updateQ(table map[models.StateKey]map[models.Difficulty]float64, alpha, gamma float64, state models.StateKey, action models.Difficulty, reward float64, nextState models.StateKey) {
	row, ok := table[state]
	if !ok {
		row = make(map[models.Difficulty]float64)
		table[state] = row
	}
	current := row[action]
	row[action] = current + alpha*(reward+gamma*maxQ(table, nextState)-current)
}

// rewardTable is the signed reward for each (difficulty, correctness) pair.
var rewardTable = map[models.Difficulty][2]float64{
	// index 0 = incorrect, index 1 = correct
	models.DifficultyLow:    {-0.50, 0.50},
	models.DifficultyMedium: {-0.55, 0.75},
	models.DifficultyHard:   {-0.75, 1.00},
}

func reward(difficulty models.Difficulty, correct bool) float64 {
	pair := rewardTable[difficulty]
	if correct {
		return pair[1]
	}
	return pair[0]
}
