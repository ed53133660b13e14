package models

import "time"

// Difficulty is the closed set of question/session difficulty levels.
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties is the canonical iteration order used wherever the
// engine needs to range over the action set deterministically.
var AllDifficulties = []Difficulty{DifficultyLow, DifficultyMedium, DifficultyHard}

// Trend is the derived categorical summary of recent performance.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// QuestionType is the closed set of generated-question kinds.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionShortAnswer    QuestionType = "short_answer"
)

// BankQuestion is one item of a QuestionBank. Options/CorrectAnswer are
// populated iff Type == QuestionMultipleChoice.
type BankQuestion struct {
	QuestionID    string       `json:"question_id"`
	Difficulty    Difficulty   `json:"difficulty"`
	Type          QuestionType `json:"question_type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Hint          string       `json:"hint"`
	Explanation   string       `json:"explanation"`
}

// QuestionBank is a pre-generated, difficulty-stratified pool of items
// backing a competitive quiz. It is independent of any Document once
// generated.
type QuestionBank struct {
	QuizID     string         `json:"quiz_id"`
	DocumentID string         `json:"document_id,omitempty"`
	Topic      string         `json:"topic,omitempty"`
	Items      []BankQuestion `json:"items"`
}

// AnsweredTurn records one graded question in a QuizSession's history.
type AnsweredTurn struct {
	QuestionID string     `json:"question_id"`
	Difficulty Difficulty `json:"difficulty"`
	UserAnswer string     `json:"user_answer"`
	IsCorrect  bool       `json:"is_correct"`
	Reward     float64    `json:"reward"`
	Timestamp  time.Time  `json:"timestamp"`
}

// StateKey is the Q-learning state: the difficulty the next question
// must match, paired with the recent-performance trend.
type StateKey struct {
	Difficulty Difficulty
	Trend      Trend
}

// BetaParams are a bandit arm's Beta(alpha, beta) posterior parameters.
type BetaParams struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// QuizSession is the stateful run of one user through a subset of a
// QuestionBank. Mutated only by Answer transitions; its Q-table and
// bandit parameters are session-local and guarded by a per-session lock
// held by the owning quiz.Engine.
type QuizSession struct {
	SessionID          string                                  `json:"session_id"`
	QuizID             string                                  `json:"quiz_id"`
	TargetCount        int                                     `json:"target_count"`
	Answered           []AnsweredTurn                          `json:"answered"`
	QTable             map[StateKey]map[Difficulty]float64      `json:"-"`
	Bandit             map[Difficulty]*BetaParams               `json:"-"`
	CurrentDifficulty  Difficulty                              `json:"current_difficulty"`
	CurrentQuestionID  string                                  `json:"current_question_id"`
	UsedQuestionIDs    map[string]struct{}                     `json:"-"`
}

// DifficultyDistribution counts served turns per difficulty, returned as
// part of Stats.
type DifficultyDistribution map[Difficulty]int

// Stats is returned with every graded answer.
type Stats struct {
	QuestionsAnswered      int                    `json:"questions_answered"`
	CorrectAnswers         int                    `json:"correct_answers"`
	Accuracy               float64                `json:"accuracy"`
	TotalReward            float64                `json:"total_reward"`
	PerformanceTrend       Trend                  `json:"performance_trend"`
	DifficultyDistribution DifficultyDistribution `json:"difficulty_distribution"`
}
