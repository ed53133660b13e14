package sessionstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"study-material-platform/internal/apperr"
	"study-material-platform/models"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 2 * time.Hour
const keyPrefix = "quiz-session:"

// snapshot is the JSON wire form of a QuizSession: StateKey is a struct
// and cannot be a JSON map key, so the Q-table round-trips as a flat
// slice of entries instead.
type snapshot struct {
	SessionID         string                    `json:"session_id"`
	QuizID            string                    `json:"quiz_id"`
	TargetCount       int                       `json:"target_count"`
	Answered          []models.AnsweredTurn     `json:"answered"`
	CurrentDifficulty models.Difficulty         `json:"current_difficulty"`
	CurrentQuestionID string                    `json:"current_question_id"`
	UsedQuestionIDs   []string                  `json:"used_question_ids"`
	Bandit            map[models.Difficulty]*models.BetaParams `json:"bandit"`
	QTable            []qEntry                  `json:"q_table"`
}

type qEntry struct {
	Difficulty models.Difficulty          `json:"difficulty"`
	Trend      models.Trend               `json:"trend"`
	Values     map[models.Difficulty]float64 `json:"values"`
}

func toSnapshot(s *models.QuizSession) snapshot {
	used := make([]string, 0, len(s.UsedQuestionIDs))
	for id := range s.UsedQuestionIDs {
		used = append(used, id)
	}
	entries := make([]qEntry, 0, len(s.QTable))
	for key, values := range s.QTable {
		entries = append(entries, qEntry{Difficulty: key.Difficulty, Trend: key.Trend, Values: values})
	}
	return snapshot{
		SessionID:         s.SessionID,
		QuizID:            s.QuizID,
		TargetCount:       s.TargetCount,
		Answered:          s.Answered,
		CurrentDifficulty: s.CurrentDifficulty,
		CurrentQuestionID: s.CurrentQuestionID,
		UsedQuestionIDs:   used,
		Bandit:            s.Bandit,
		QTable:            entries,
	}
}

func fromSnapshot(snap snapshot) *models.QuizSession {
	used := make(map[string]struct{}, len(snap.UsedQuestionIDs))
	for _, id := range snap.UsedQuestionIDs {
		used[id] = struct{}{}
	}
	qtable := make(map[models.StateKey]map[models.Difficulty]float64, len(snap.QTable))
	for _, e := range snap.QTable {
		qtable[models.StateKey{Difficulty: e.Difficulty, Trend: e.Trend}] = e.Values
	}
	return &models.QuizSession{
		SessionID:         snap.SessionID,
		QuizID:            snap.QuizID,
		TargetCount:       snap.TargetCount,
		Answered:          snap.Answered,
		CurrentDifficulty: snap.CurrentDifficulty,
		CurrentQuestionID: snap.CurrentQuestionID,
		UsedQuestionIDs:   used,
		Bandit:            snap.Bandit,
		QTable:            qtable,
	}
}

// RedisStore persists sessions as JSON snapshots, for deployments that
// run multiple API replicas behind a shared quiz workload. Per-session
// locking still happens in-process: a distributed lock (SETNX/Redlock)
// is unnecessary since the spec only requires non-blocking rejection of
// concurrent answers, not cross-replica exclusion.
type RedisStore struct {
	client *redis.Client
	locks  sync.Map // sessionID -> *sync.Mutex
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Create(ctx context.Context, session *models.QuizSession) error {
	return r.Save(ctx, session)
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*models.QuizSession, error) {
	raw, err := r.client.Get(ctx, keyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, apperr.NotFound("session not found", nil)
	}
	if err != nil {
		return nil, apperr.UpstreamError("session store unavailable", err)
	}
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, apperr.Internal("corrupt session record", err)
	}
	return fromSnapshot(snap), nil
}

func (r *RedisStore) Save(ctx context.Context, session *models.QuizSession) error {
	raw, err := json.Marshal(toSnapshot(session))
	if err != nil {
		return apperr.Internal("failed to serialize session", err)
	}
	if err := r.client.Set(ctx, keyPrefix+session.SessionID, raw, sessionTTL).Err(); err != nil {
		return apperr.UpstreamError("session store unavailable", err)
	}
	return nil
}

func (r *RedisStore) Lock(sessionID string) (func(), bool) {
	lockAny, _ := r.locks.LoadOrStore(sessionID, &sync.Mutex{})
	lock := lockAny.(*sync.Mutex)
	if !lock.TryLock() {
		return nil, false
	}
	return lock.Unlock, true
}
