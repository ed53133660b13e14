package quiz

import (
	"math/rand"
	"testing"

	"study-material-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBanditSeedsUniformPrior(t *testing.T) {
	bandit := newBandit()
	require.Len(t, bandit, len(models.AllDifficulties))
	for _, d := range models.AllDifficulties {
		assert.Equal(t, 1.0, bandit[d].Alpha)
		assert.Equal(t, 1.0, bandit[d].Beta)
	}
}

func TestUpdateBanditIncrementsAlphaOnCorrect(t *testing.T) {
	bandit := newBandit()
	updateBandit(bandit, models.DifficultyMedium, true)
	assert.Equal(t, 2.0, bandit[models.DifficultyMedium].Alpha)
	assert.Equal(t, 1.0, bandit[models.DifficultyMedium].Beta)
}

func TestUpdateBanditIncrementsBetaOnIncorrect(t *testing.T) {
	bandit := newBandit()
	updateBandit(bandit, models.DifficultyHard, false)
	assert.Equal(t, 1.0, bandit[models.DifficultyHard].Alpha)
	assert.Equal(t, 2.0, bandit[models.DifficultyHard].Beta)
}

func TestBanditTurnsServedInvariant(t *testing.T) {
	bandit := newBandit()
	rounds := []struct {
		d       models.Difficulty
		correct bool
	}{
		{models.DifficultyLow, true},
		{models.DifficultyLow, false},
		{models.DifficultyMedium, true},
		{models.DifficultyHard, false},
		{models.DifficultyHard, false},
	}
	for _, r := range rounds {
		updateBandit(bandit, r.d, r.correct)
	}
	served := map[models.Difficulty]int{models.DifficultyLow: 2, models.DifficultyMedium: 1, models.DifficultyHard: 2}
	for d, n := range served {
		p := bandit[d]
		assert.Equal(t, float64(n), p.Alpha+p.Beta-2)
	}
}

func TestThompsonPickReturnsAValidDifficulty(t *testing.T) {
	bandit := newBandit()
	rng := rand.New(rand.NewSource(1))
	pick := thompsonPick(bandit, rng)
	assert.Contains(t, models.AllDifficulties, pick)
}

func TestThompsonPickFavorsStrongPosterior(t *testing.T) {
	bandit := newBandit()
	bandit[models.DifficultyHard].Alpha = 1000
	bandit[models.DifficultyHard].Beta = 1
	rng := rand.New(rand.NewSource(42))
	hits := 0
	for i := 0; i < 20; i++ {
		if thompsonPick(bandit, rng) == models.DifficultyHard {
			hits++
		}
	}
	assert.True(t, hits > 15, "expected hard to dominate with a strong posterior, got %d/20", hits)
}
