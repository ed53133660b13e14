// Package retrieval implements ranked, token-budgeted retrieval against
// a document namespace.
package retrieval

import (
	"context"
	"sort"
	"strings"

	"study-material-platform/internal/ai"
	"study-material-platform/internal/vectorstore"
	"study-material-platform/models"
)

const minChunkChars = 50

// Config carries the retrieval-time budget knobs.
type Config struct {
	MaxContextTokens int
	ResponseReserve  int
}

// Service retrieves and budgets chunks for a single query.
type Service struct {
	embedder ai.Embedder
	store    vectorstore.Store
	cfg      Config
}

func NewService(embedder ai.Embedder, store vectorstore.Store, cfg Config) *Service {
	return &Service{embedder: embedder, store: store, cfg: cfg}
}

// Retrieve embeds query, fetches 2*k candidates, quality-filters,
// ranks, and applies context-window budgeting, returning up to k chunks
// in rank order.
func (s *Service) Retrieve(ctx context.Context, documentID, query string, k int) ([]models.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.Query(ctx, documentID, queryVec, 2*k)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.RetrievedChunk, 0, len(candidates))
	for _, c := range candidates {
		if countNonWhitespace(strings.TrimSpace(c.Text)) < minChunkChars {
			continue
		}
		filtered = append(filtered, c)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Similarity != filtered[j].Similarity {
			return filtered[i].Similarity > filtered[j].Similarity
		}
		if len(filtered[i].Text) != len(filtered[j].Text) {
			return len(filtered[i].Text) > len(filtered[j].Text)
		}
		return filtered[i].Metadata.ChunkIndex < filtered[j].Metadata.ChunkIndex
	})

	if len(filtered) > k {
		filtered = filtered[:k]
	}

	return s.budget(filtered, query), nil
}

// budget applies the context-window budgeting algorithm: chunks are
// added in ranked order while the estimated-token budget allows;
// over-budget chunks are truncated at the last sentence boundary that
// fits (never below minChunkChars) or dropped.
func (s *Service) budget(ranked []models.RetrievedChunk, query string) []models.RetrievedChunk {
	remaining := s.cfg.MaxContextTokens - ai.EstimateTokens(query) - s.cfg.ResponseReserve
	if remaining <= 0 {
		return nil
	}

	out := make([]models.RetrievedChunk, 0, len(ranked))
	for _, c := range ranked {
		tokens := ai.EstimateTokens(c.Text)
		if tokens <= remaining {
			out = append(out, c)
			remaining -= tokens
			continue
		}

		maxChars := remaining * 4
		if maxChars < minChunkChars {
			continue
		}
		truncated := truncateAtSentence(c.Text, maxChars)
		if countNonWhitespace(truncated) < minChunkChars {
			continue
		}
		c.Text = truncated
		out = append(out, c)
		remaining -= ai.EstimateTokens(truncated)
	}
	return out
}

// truncateAtSentence cuts text to at most maxChars, backing up to the
// nearest preceding sentence boundary ". " when one exists.
func truncateAtSentence(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	if idx := strings.LastIndex(cut, ". "); idx > 0 {
		return strings.TrimSpace(cut[:idx+1])
	}
	return strings.TrimSpace(cut)
}

func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !strings.ContainsRune(" \t\n\r", r) {
			n++
		}
	}
	return n
}
