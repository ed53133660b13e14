package ai

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeProviderEmbedIsDeterministic(t *testing.T) {
	p := NewFakeProvider(16)
	v1, err := p.Embed(context.Background(), "photosynthesis in plants")
	require.NoError(t, err)
	v2, err := p.Embed(context.Background(), "photosynthesis in plants")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestFakeProviderEmbedIsUnitNorm(t *testing.T) {
	p := NewFakeProvider(16)
	v, err := p.Embed(context.Background(), "some non-empty text")
	require.NoError(t, err)
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-3)
}

func TestFakeProviderDefaultsDimension(t *testing.T) {
	p := NewFakeProvider(0)
	assert.Equal(t, 16, p.Dimensions())
}

func TestFakeProviderSharedWordsYieldHigherSimilarityThanUnrelatedText(t *testing.T) {
	p := NewFakeProvider(64)
	a, _ := p.Embed(context.Background(), "photosynthesis converts light into energy")
	b, _ := p.Embed(context.Background(), "photosynthesis converts sunlight into chemical energy")
	c, _ := p.Embed(context.Background(), "quarterly revenue grew sharply this year")

	simAB := dot(a, b)
	simAC := dot(a, c)
	assert.Greater(t, simAB, simAC)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestEstimateTokensIsAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, EstimateTokens(""))
}

func TestEstimateTokensUsesFourCharHeuristic(t *testing.T) {
	assert.Equal(t, 3, EstimateTokens("twelve chars"))
}
