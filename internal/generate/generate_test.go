package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONStripsSurroundingProse(t *testing.T) {
	raw := "Sure, here is the answer:\n```json\n{\"a\":1}\n```\nHope that helps!"
	assert.Equal(t, `{"a":1}`, extractJSON(raw))
}

func TestExtractJSONHandlesArrays(t *testing.T) {
	raw := "prefix [1,2,3] suffix"
	assert.Equal(t, "[1,2,3]", extractJSON(raw))
}

func TestExtractJSONFallsBackToRawWhenNoBraces(t *testing.T) {
	raw := "no json here"
	assert.Equal(t, raw, extractJSON(raw))
}

type scriptedCompleter struct {
	responses []string
	calls     int
}

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.calls >= len(c.responses) {
		return "", errors.New("no more scripted responses")
	}
	r := c.responses[c.calls]
	c.calls++
	return r, nil
}

func TestGenerateJSONSucceedsFirstTry(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{`{"value":"ok"}`}}
	var dst struct {
		Value string `json:"value"`
	}
	err := generateJSON(context.Background(), completer, "prompt", &dst, func() error {
		if dst.Value == "" {
			return errors.New("empty")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", dst.Value)
	assert.Equal(t, 1, completer.calls)
}

func TestGenerateJSONRetriesOnceThenSucceeds(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{"not json at all", `{"value":"ok"}`}}
	var dst struct {
		Value string `json:"value"`
	}
	err := generateJSON(context.Background(), completer, "prompt", &dst, func() error {
		if dst.Value == "" {
			return errors.New("empty")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", dst.Value)
	assert.Equal(t, 2, completer.calls)
}

func TestGenerateJSONFailsAfterTwoBadAttempts(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{"garbage", "still garbage"}}
	var dst struct {
		Value string `json:"value"`
	}
	err := generateJSON(context.Background(), completer, "prompt", &dst, func() error {
		return errors.New("never valid")
	})
	assert.Error(t, err)
}
