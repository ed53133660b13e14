// Package ai defines the Embedder/Completer provider boundary and its
// Gemini-backed and in-memory implementations.
package ai

import "context"

// Embedder turns text into fixed-dimension vectors. Implementations MAY
// batch internally; callers should prefer EmbedBatch for more than one
// text so a single provider round trip is used.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Completer produces a single free-text completion from a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// estimateTokens applies the shared 4-chars-per-token heuristic used for
// both provider rate accounting and retrieval/prompt budgeting.
func estimateTokens(s string) int {
	n := (len(s) + 3) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// EstimateTokens exposes the heuristic for other packages (retrieval,
// prompting) that must stay consistent with provider-side accounting.
func EstimateTokens(s string) int { return estimateTokens(s) }
