// Package quiz implements the adaptive competitive-quiz engine: a
// tabular Q-learning agent blended with Thompson-sampling bandits picks
// each turn's difficulty, with a deterministic safety adjustment applied
// after the blend.
package quiz

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"study-material-platform/internal/apperr"
	"study-material-platform/internal/generate"
	"study-material-platform/internal/sessionstore"
	"study-material-platform/models"

	"github.com/google/uuid"
)

// Config carries the adaptive-engine hyperparameters.
type Config struct {
	Alpha        float64 // Q-learning learning rate
	Gamma        float64 // Q-learning discount factor
	Epsilon      float64 // Q-policy exploration rate
	BlendWeightQ float64 // probability of using the Q-policy's recommendation
}

var difficultyRank = map[models.Difficulty]int{
	models.DifficultyLow:    0,
	models.DifficultyMedium: 1,
	models.DifficultyHard:   2,
}

// Engine owns the question banks and delegates session persistence and
// locking to a sessionstore.Store.
type Engine struct {
	generator *generate.Service
	sessions  sessionstore.Store
	cfg       Config

	banksMu sync.RWMutex
	banks   map[string]*models.QuestionBank
}

func NewEngine(generator *generate.Service, sessions sessionstore.Store, cfg Config) *Engine {
	return &Engine{
		generator: generator,
		sessions:  sessions,
		banks:     make(map[string]*models.QuestionBank),
		cfg:       cfg,
	}
}

// GenerateBank builds a question bank and holds it in the engine for
// subsequent sessions to draw from.
func (e *Engine) GenerateBank(ctx context.Context, documentID, topic string, numQuestions int) (*models.QuestionBank, error) {
	bank, err := e.generator.GenerateBank(ctx, documentID, topic, numQuestions)
	if err != nil {
		return nil, err
	}
	e.banksMu.Lock()
	e.banks[bank.QuizID] = bank
	e.banksMu.Unlock()
	return bank, nil
}

func (e *Engine) bank(quizID string) (*models.QuestionBank, error) {
	e.banksMu.RLock()
	defer e.banksMu.RUnlock()
	bank, ok := e.banks[quizID]
	if !ok {
		return nil, apperr.NotFound("question bank not found", nil)
	}
	return bank, nil
}

// StartResult is returned by Start.
type StartResult struct {
	SessionID         string
	FirstQuestion     *models.BankQuestion
	CurrentDifficulty models.Difficulty
}

// Start mints a new session against an existing bank and draws its
// first question at medium difficulty.
func (e *Engine) Start(ctx context.Context, quizID string, targetCount int) (*StartResult, error) {
	bank, err := e.bank(quizID)
	if err != nil {
		return nil, err
	}
	if targetCount <= 0 {
		targetCount = len(bank.Items)
	}

	first := drawQuestion(bank.Items, map[string]struct{}{}, models.DifficultyMedium)
	if first == nil {
		return nil, apperr.BadInput("question bank has no items to serve", nil)
	}

	session := &models.QuizSession{
		SessionID:         uuid.NewString(),
		QuizID:            quizID,
		TargetCount:       targetCount,
		QTable:            make(map[models.StateKey]map[models.Difficulty]float64),
		Bandit:            newBandit(),
		CurrentDifficulty: models.DifficultyMedium,
		CurrentQuestionID: first.QuestionID,
		UsedQuestionIDs:   map[string]struct{}{first.QuestionID: {}},
	}
	if err := e.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &StartResult{
		SessionID:         session.SessionID,
		FirstQuestion:     first,
		CurrentDifficulty: session.CurrentDifficulty,
	}, nil
}

// AnswerResult is returned by Answer.
type AnswerResult struct {
	IsCorrect      bool
	CorrectAnswer  string
	Explanation    string
	Reward         float64
	Stats          models.Stats
	IsComplete     bool
	NextQuestion   *models.BankQuestion
	NextDifficulty models.Difficulty
}

// Answer grades one turn, updates the Q-table and bandit, and either
// draws the next question or completes the session.
func (e *Engine) Answer(ctx context.Context, sessionID, questionID, userAnswer string) (*AnswerResult, error) {
	unlock, ok := e.sessions.Lock(sessionID)
	if !ok {
		return nil, apperr.Conflict("another answer for this session is already being processed", nil)
	}
	defer unlock()

	session, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	bank, err := e.bank(session.QuizID)
	if err != nil {
		return nil, err
	}

	if questionID != session.CurrentQuestionID {
		return nil, apperr.BadInput("question_id does not match the session's current question", nil)
	}
	question := findQuestion(bank.Items, questionID)
	if question == nil {
		return nil, apperr.NotFound("question not found in bank", nil)
	}

	correct := strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(question.CorrectAnswer))
	servedDifficulty := session.CurrentDifficulty
	r := reward(servedDifficulty, correct)

	stateT := models.StateKey{Difficulty: servedDifficulty, Trend: trend(session.Answered)}

	session.Answered = append(session.Answered, models.AnsweredTurn{
		QuestionID: questionID,
		Difficulty: servedDifficulty,
		UserAnswer: userAnswer,
		IsCorrect:  correct,
		Reward:     r,
		Timestamp:  time.Now().UTC(),
	})

	stateNext := models.StateKey{Difficulty: servedDifficulty, Trend: trend(session.Answered)}
	updateQ(session.QTable, e.cfg.Alpha, e.cfg.Gamma, stateT, servedDifficulty, r, stateNext)
	updateBandit(session.Bandit, servedDifficulty, correct)

	result := &AnswerResult{
		IsCorrect:     correct,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		Reward:        r,
		Stats:         computeStats(session),
	}

	if len(session.Answered) >= session.TargetCount {
		result.IsComplete = true
		if err := e.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return result, nil
	}

	next := e.selectNextDifficulty(session, stateNext, correct)
	nextQuestion := drawQuestion(bank.Items, session.UsedQuestionIDs, next)
	if nextQuestion == nil {
		result.IsComplete = true
		session.TargetCount = len(session.Answered)
		if err := e.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return result, nil
	}

	session.CurrentDifficulty = next
	session.CurrentQuestionID = nextQuestion.QuestionID
	session.UsedQuestionIDs[nextQuestion.QuestionID] = struct{}{}

	if err := e.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	result.NextQuestion = nextQuestion
	result.NextDifficulty = next
	return result, nil
}

// selectNextDifficulty blends the Q-policy and Thompson-policy
// recommendations and applies the post-blend safety adjustment.
func (e *Engine) selectNextDifficulty(session *models.QuizSession, stateNext models.StateKey, lastCorrect bool) models.Difficulty {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	qPick := qPolicyPick(session.QTable, stateNext, e.cfg.Epsilon, rng)
	thompsonPickD := thompsonPick(session.Bandit, rng)

	blended := thompsonPickD
	if rng.Float64() < e.cfg.BlendWeightQ {
		blended = qPick
	}

	return safetyAdjust(blended, session.CurrentDifficulty, lastCorrect)
}

func qPolicyPick(table map[models.StateKey]map[models.Difficulty]float64, state models.StateKey, epsilon float64, rng *rand.Rand) models.Difficulty {
	if rng.Float64() < epsilon {
		return models.AllDifficulties[rng.Intn(len(models.AllDifficulties))]
	}
	return argmaxQ(table, state)
}

// safetyAdjust pulls the blended recommendation back to current when it
// overcorrects: a correct answer can never be followed by an easier
// question than current, an incorrect answer never by a harder one.
func safetyAdjust(blended, current models.Difficulty, lastCorrect bool) models.Difficulty {
	if lastCorrect && difficultyRank[blended] < difficultyRank[current] {
		return current
	}
	if !lastCorrect && difficultyRank[blended] > difficultyRank[current] {
		return current
	}
	return blended
}

func findQuestion(items []models.BankQuestion, questionID string) *models.BankQuestion {
	for i := range items {
		if items[i].QuestionID == questionID {
			return &items[i]
		}
	}
	return nil
}

func computeStats(session *models.QuizSession) models.Stats {
	correct := 0
	var totalReward float64
	dist := make(models.DifficultyDistribution)
	for _, turn := range session.Answered {
		if turn.IsCorrect {
			correct++
		}
		totalReward += turn.Reward
		dist[turn.Difficulty]++
	}
	n := len(session.Answered)
	var accuracy float64
	if n > 0 {
		accuracy = float64(correct) / float64(n) * 100
	}
	return models.Stats{
		QuestionsAnswered:      n,
		CorrectAnswers:         correct,
		Accuracy:               accuracy,
		TotalReward:            totalReward,
		PerformanceTrend:       trend(session.Answered),
		DifficultyDistribution: dist,
	}
}
