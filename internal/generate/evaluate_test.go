package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateAnswerParsesWellFormedResponse(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{`{"is_correct":true,"feedback":"Matches the key idea."}`}}
	svc := &Service{completer: completer}

	eval, err := svc.EvaluateAnswer(context.Background(), "What is gravity?", "A force of attraction between masses.", "It pulls things together.")
	require.NoError(t, err)
	assert.True(t, eval.IsCorrect)
	assert.Equal(t, "Matches the key idea.", eval.Feedback)
}

func TestEvaluateAnswerRetriesOnEmptyFeedback(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"is_correct":false,"feedback":""}`,
		`{"is_correct":false,"feedback":"Missing the core mechanism."}`,
	}}
	svc := &Service{completer: completer}

	eval, err := svc.EvaluateAnswer(context.Background(), "q", "ref", "user")
	require.NoError(t, err)
	assert.False(t, eval.IsCorrect)
	assert.Equal(t, 2, completer.calls)
}
