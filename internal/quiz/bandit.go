package quiz

import (
	"math/rand"

	"study-material-platform/models"

	"gonum.org/v1/gonum/stat/distuv"
)

// thompsonPick samples theta_d ~ Beta(alpha_d, beta_d) for every
// difficulty and returns the argmax.
func thompsonPick(bandit map[models.Difficulty]*models.BetaParams, rng *rand.Rand) models.Difficulty {
	best := models.AllDifficulties[0]
	bestTheta := sampleBeta(bandit[best], rng)
	for _, d := range models.AllDifficulties[1:] {
		theta := sampleBeta(bandit[d], rng)
		if theta > bestTheta {
			bestTheta = theta
			best = d
		}
	}
	return best
}

func sampleBeta(params *models.BetaParams, rng *rand.Rand) float64 {
	dist := distuv.Beta{Alpha: params.Alpha, Beta: params.Beta, Src: rng}
	return dist.Rand()
}

// newBandit seeds a fresh Beta(1,1) prior for every difficulty.
func newBandit() map[models.Difficulty]*models.BetaParams {
	bandit := make(map[models.Difficulty]*models.BetaParams, len(models.AllDifficulties))
	for _, d := range models.AllDifficulties {
		bandit[d] = &models.BetaParams{Alpha: 1, Beta: 1}
	}
	return bandit
}

// updateBandit applies the posterior update after grading one turn.
func updateBandit(bandit map[models.Difficulty]*models.BetaParams, action models.Difficulty, correct bool) {
	params := bandit[action]
	if params == nil {
		params = &models.BetaParams{Alpha: 1, Beta: 1}
		bandit[action] = params
	}
	if correct {
		params.Alpha++
	} else {
		params.Beta++
	}
}
