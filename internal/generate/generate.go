// Package generate implements the structured content generators: quiz,
// summary, flashcards, short-answer evaluation, and the competitive
// question bank. Every generator validates the model's JSON output
// against its schema and retries once with a repair prompt before
// failing with a GenerationError.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"study-material-platform/internal/ai"
	"study-material-platform/internal/apperr"
	"study-material-platform/internal/retrieval"
	"study-material-platform/models"
)

const breadthK = 10

// optionLetters is the fixed A-D labeling, in order, that
// validateLabeledOptions checks for.
var optionLetters = []string{"A", "B", "C", "D"}

// validateLabeledOptions checks that options has exactly 4 entries and
// each is prefixed with its distinct letter A-D followed by ". "
// (e.g. "A. Paris"). Neither validateQuiz nor validateBankItems calls
// it: their option checks cover count (and, for the bank, distinctness)
// but not letter prefixes, and the bank prompt asks for options without
// a letter prefix.
func validateLabeledOptions(options []string) error {
	if len(options) != 4 {
		return fmt.Errorf("requires exactly 4 options, got %d", len(options))
	}
	for i, opt := range options {
		letter := optionLetters[i]
		trimmed := strings.TrimSpace(opt)
		prefix := letter + "."
		if !strings.HasPrefix(trimmed, prefix) || len(trimmed) <= len(prefix) || trimmed[len(prefix)] != ' ' {
			return fmt.Errorf("option %d must start with %q followed by a separator, got %q", i, letter, opt)
		}
	}
	return nil
}

// Service generates structured study artifacts from a document's
// retrieved context.
type Service struct {
	retriever *retrieval.Service
	completer ai.Completer
}

func NewService(retriever *retrieval.Service, completer ai.Completer) *Service {
	return &Service{retriever: retriever, completer: completer}
}

// contextForGeneration retrieves breadth-configured context
// (similarity-ranked then re-sorted by chunk_index to preserve narrative
// order), per spec 4.7.
func (s *Service) contextForGeneration(ctx context.Context, documentID, seedQuery string) ([]models.RetrievedChunk, error) {
	chunks, err := s.retriever.Retrieve(ctx, documentID, seedQuery, breadthK)
	if err != nil {
		return nil, err
	}
	sortByChunkIndex(chunks)
	return chunks, nil
}

func sortByChunkIndex(chunks []models.RetrievedChunk) {
	for i := 1; i < len(chunks); i++ {
		for j := i; j > 0 && chunks[j].Metadata.ChunkIndex < chunks[j-1].Metadata.ChunkIndex; j-- {
			chunks[j], chunks[j-1] = chunks[j-1], chunks[j]
		}
	}
}

func contextBlock(chunks []models.RetrievedChunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Source: %s, p. %d]\n%s", c.Metadata.Filename, c.Metadata.PageNumber, c.Text)
	}
	return b.String()
}

// generateJSON calls the completer, parses the response as JSON into
// dst, and validates it with validate. On failure it retries once with
// an explicit repair instruction; a second failure yields a
// GenerationError.
func generateJSON(ctx context.Context, completer ai.Completer, prompt string, dst any, validate func() error) error {
	raw, err := completer.Complete(ctx, prompt)
	if err != nil {
		return err
	}
	if parseAndValidate(raw, dst, validate) == nil {
		return nil
	}

	repairPrompt := prompt + "\n\nYour previous response was not valid JSON matching the required schema. " +
		"Respond again with ONLY a single JSON object matching the schema exactly, no surrounding text."
	raw, err = completer.Complete(ctx, repairPrompt)
	if err != nil {
		return err
	}
	if err := parseAndValidate(raw, dst, validate); err != nil {
		return apperr.Generation("model output failed schema validation twice in a row", err)
	}
	return nil
}

func parseAndValidate(raw string, dst any, validate func() error) error {
	cleaned := extractJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return err
	}
	return validate()
}

// extractJSON trims any prose the model wrapped around the JSON object,
// taking the outermost {...} or [...] span.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return raw
	}
	open, close := raw[start], byte('}')
	if open == '[' {
		close = ']'
	}
	end := strings.LastIndexByte(raw, close)
	if end < start {
		return raw
	}
	return raw[start : end+1]
}
