// Package sessionstore persists adaptive-quiz sessions. Quiz sessions are
// mutated under a per-session lock obtained from the same Store, so a
// second concurrent answer attempt fails fast instead of queuing.
package sessionstore

import (
	"context"

	"study-material-platform/models"
)

// Store persists QuizSessions and arbitrates concurrent access to each
// one. Lock must be non-blocking: it returns ok=false immediately if the
// session is already locked, so callers can translate contention into a
// ConflictError rather than stalling a request.
type Store interface {
	Create(ctx context.Context, session *models.QuizSession) error
	Get(ctx context.Context, sessionID string) (*models.QuizSession, error)
	Save(ctx context.Context, session *models.QuizSession) error

	// Lock attempts to acquire the per-session lock without blocking.
	// unlock must be called exactly once when ok is true.
	Lock(sessionID string) (unlock func(), ok bool)
}
