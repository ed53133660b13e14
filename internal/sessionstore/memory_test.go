package sessionstore

import (
	"context"
	"testing"

	"study-material-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	session := &models.QuizSession{SessionID: "s1", QuizID: "q1"}
	require.NoError(t, store.Create(context.Background(), session))

	got, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "q1", got.QuizID)
}

func TestMemoryStoreGetMissingReturnsNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestMemoryStoreLockRejectsSecondConcurrentHolder(t *testing.T) {
	store := NewMemoryStore()
	unlock, ok := store.Lock("s1")
	require.True(t, ok)

	_, ok2 := store.Lock("s1")
	assert.False(t, ok2)

	unlock()
	_, ok3 := store.Lock("s1")
	assert.True(t, ok3)
}

func TestMemoryStoreLockIsPerSession(t *testing.T) {
	store := NewMemoryStore()
	_, ok1 := store.Lock("s1")
	_, ok2 := store.Lock("s2")
	assert.True(t, ok1)
	assert.True(t, ok2)
}
