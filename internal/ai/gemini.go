package ai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"study-material-platform/internal/apperr"
	"study-material-platform/internal/logger"
	"study-material-platform/internal/retry"
	"study-material-platform/internal/telemetry"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// rateLimits mirrors the teacher's per-tier RPM/TPM/RPD table; only RPM
// sizes the limiter here, TPM/RPD are enforced by tokenBudget.
type rateLimits struct {
	RPM int
	TPM int
	RPD int
}

func limitsForTier(tier string) rateLimits {
	switch tier {
	case "tier1":
		return rateLimits{RPM: 1000, TPM: 1000000, RPD: 10000}
	case "tier2":
		return rateLimits{RPM: 2000, TPM: 4000000, RPD: 50000}
	default:
		return rateLimits{RPM: 10, TPM: 250000, RPD: 250}
	}
}

// tokenBudget tracks per-minute/per-day token and request consumption so
// a single process stays inside its provider tier, the way the teacher's
// TokenCounter does.
type tokenBudget struct {
	mu              sync.Mutex
	limits          rateLimits
	minuteTokens    int
	minuteRequests  int
	dailyTokens     int
	dailyRequests   int
	lastMinuteReset time.Time
	lastDayReset    time.Time
}

func newTokenBudget(limits rateLimits) *tokenBudget {
	now := time.Now()
	return &tokenBudget{limits: limits, lastMinuteReset: now, lastDayReset: now}
}

func (b *tokenBudget) canConsume(tokens int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.Sub(b.lastMinuteReset) >= time.Minute {
		b.minuteTokens, b.minuteRequests = 0, 0
		b.lastMinuteReset = now
	}
	if now.Sub(b.lastDayReset) >= 24*time.Hour {
		b.dailyTokens, b.dailyRequests = 0, 0
		b.lastDayReset = now
	}

	if b.minuteRequests+1 > b.limits.RPM || b.minuteTokens+tokens > b.limits.TPM || b.dailyRequests+1 > b.limits.RPD {
		return false
	}
	return true
}

func (b *tokenBudget) record(tokens int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minuteTokens += tokens
	b.minuteRequests++
	b.dailyTokens += tokens
	b.dailyRequests++
}

// GeminiProvider implements Embedder and Completer over
// github.com/google/generative-ai-go/genai, wrapping every call in the
// teacher's circuit-breaker + rate-limiter composition plus the shared
// retry policy.
type GeminiProvider struct {
	client       *genai.Client
	embedModel   string
	chatModel    string
	dimensions   int
	timeout      time.Duration
	embedBreaker *gobreaker.CircuitBreaker
	chatBreaker  *gobreaker.CircuitBreaker
	limiter      *rate.Limiter
	budget       *tokenBudget
	metrics      *telemetry.Metrics
}

// NewGeminiProvider dials the Gemini client once and configures the
// breakers/limiter for the given tier. metrics may be nil, in which
// case token and circuit-breaker accounting is skipped.
func NewGeminiProvider(ctx context.Context, apiKey, embedModel, chatModel, tier string, dimensions int, timeout time.Duration, metrics *telemetry.Metrics) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	limits := limitsForTier(tier)
	newBreaker := func(name string) *gobreaker.CircuitBreaker {
		return gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    10 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn(fmt.Sprintf("circuit breaker %s: %s -> %s", name, from, to))
				if metrics != nil {
					metrics.RecordCircuitBreakerState(name, to.String())
				}
			},
		})
	}

	return &GeminiProvider{
		client:       client,
		embedModel:   embedModel,
		chatModel:    chatModel,
		dimensions:   dimensions,
		timeout:      timeout,
		embedBreaker: newBreaker("gemini-embed"),
		chatBreaker:  newBreaker("gemini-chat"),
		limiter:      rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), max(1, limits.RPM/10)),
		budget:       newTokenBudget(limits),
		metrics:      metrics,
	}, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (p *GeminiProvider) Dimensions() int { return p.dimensions }

func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out := make([][]float32, len(texts))
	for i, text := range texts {
		tokens := estimateTokens(text)
		if !p.budget.canConsume(tokens) {
			return nil, apperr.UpstreamError("embedding provider rate budget exceeded", nil)
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, translateTimeout(err)
		}

		var vec []float32
		err := retry.Do(ctx, retry.Transient, func(ctx context.Context) error {
			result, berr := p.embedBreaker.Execute(func() (interface{}, error) {
				model := p.client.EmbeddingModel(p.embedModel)
				resp, err := model.EmbedContent(ctx, genai.Text(text))
				if err != nil {
					return nil, err
				}
				if resp.Embedding == nil {
					return nil, fmt.Errorf("empty embedding response")
				}
				return resp.Embedding.Values, nil
			})
			if berr != nil {
				return berr
			}
			vec = result.([]float32)
			return nil
		})
		if err != nil {
			return nil, translateProviderError(err)
		}

		p.budget.record(tokens)
		if p.metrics != nil {
			p.metrics.RecordTokensUsed(int64(tokens), p.embedModel)
		}
		out[i] = vec
	}
	return out, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tokens := estimateTokens(prompt)
	if !p.budget.canConsume(tokens) {
		return "", apperr.UpstreamError("completion provider rate budget exceeded", nil)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return "", translateTimeout(err)
	}

	var text string
	err := retry.Do(ctx, retry.Transient, func(ctx context.Context) error {
		result, berr := p.chatBreaker.Execute(func() (interface{}, error) {
			model := p.client.GenerativeModel(p.chatModel)
			model.SetTemperature(0.7)
			model.SetMaxOutputTokens(2048)
			resp, err := model.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return nil, err
			}
			return extractText(resp), nil
		})
		if berr != nil {
			return berr
		}
		text = result.(string)
		return nil
	})
	if err != nil {
		return "", translateProviderError(err)
	}

	actual := estimateTokens(text)
	p.budget.record(tokens + actual)
	if p.metrics != nil {
		p.metrics.RecordTokensUsed(int64(tokens+actual), p.chatModel)
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var out string
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				out += string(t)
			}
		}
	}
	return out
}

func translateTimeout(err error) error {
	return apperr.UpstreamTimeout("provider call did not complete before its deadline", err)
}

func translateProviderError(err error) error {
	if err == context.DeadlineExceeded {
		return apperr.UpstreamTimeout("provider call did not complete before its deadline", err)
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return apperr.UpstreamError("provider circuit breaker is open", err)
	}
	return apperr.UpstreamError("provider call failed", err)
}

// Close releases the underlying genai client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
