package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvFallsBackToDefaultWhenUnset(t *testing.T) {
	t.Setenv("CONFIG_TEST_STR", "")
	assert.Equal(t, "fallback", getEnv("CONFIG_TEST_STR", "fallback"))
}

func TestGetEnvReturnsSetValue(t *testing.T) {
	t.Setenv("CONFIG_TEST_STR", "set-value")
	assert.Equal(t, "set-value", getEnv("CONFIG_TEST_STR", "fallback"))
}

func TestGetEnvIntParsesValidInt(t *testing.T) {
	t.Setenv("CONFIG_TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("CONFIG_TEST_INT", 7))
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("CONFIG_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvInt("CONFIG_TEST_INT", 7))
}

func TestGetEnvInt64ParsesValidInt(t *testing.T) {
	t.Setenv("CONFIG_TEST_INT64", "104857600")
	assert.Equal(t, int64(104857600), getEnvInt64("CONFIG_TEST_INT64", 0))
}

func TestGetEnvBoolParsesTrueFalse(t *testing.T) {
	t.Setenv("CONFIG_TEST_BOOL", "true")
	assert.True(t, getEnvBool("CONFIG_TEST_BOOL", false))

	t.Setenv("CONFIG_TEST_BOOL", "false")
	assert.False(t, getEnvBool("CONFIG_TEST_BOOL", true))
}

func TestGetEnvFloat64ParsesDecimal(t *testing.T) {
	t.Setenv("CONFIG_TEST_FLOAT", "0.3")
	assert.InDelta(t, 0.3, getEnvFloat64("CONFIG_TEST_FLOAT", 0), 1e-9)
}

func TestSplitNonEmptyTrimsAndDropsBlanks(t *testing.T) {
	out := splitNonEmpty("http://a.com, http://b.com ,, http://c.com")
	assert.Equal(t, []string{"http://a.com", "http://b.com", "http://c.com"}, out)
}

func TestSplitNonEmptyEmptyStringYieldsNil(t *testing.T) {
	assert.Nil(t, splitNonEmpty(""))
}

func TestLoadConfigAppliesDefaultsInDebugMode(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.VectorStoreKind)
	assert.Equal(t, 0.1, cfg.QLAlpha)
	assert.Equal(t, 0.7, cfg.BlendWeightQ)
}

func TestLoadConfigFailsClosedInReleaseModeWithoutGeminiKey(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EMBEDDINGS_PROVIDER", "google")
	t.Setenv("COMPLETION_PROVIDER", "google")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigFailsClosedInReleaseModeWithoutQdrantURL(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("VECTOR_STORE_KIND", "qdrant")
	t.Setenv("QDRANT_URL", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
