// Package qa implements grounded question-answering with a dual-signal
// out-of-document fallback.
package qa

import (
	"context"
	"strings"

	"study-material-platform/internal/ai"
	"study-material-platform/internal/prompting"
	"study-material-platform/internal/retrieval"
	"study-material-platform/models"
)

const retrievalK = 5
const maxSources = 3
const sourceTruncateChars = 300

// Source is a retrieved chunk surfaced to the client alongside an
// answer, truncated for display.
type Source struct {
	Filename   string `json:"filename"`
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// Answer is the result of a QA turn.
type Answer struct {
	Answer       string   `json:"answer"`
	Sources      []Source `json:"sources"`
	FromDocument bool     `json:"from_document"`
}

// Service answers questions grounded in one document's retrieved
// context, falling back to general knowledge with an explicit
// disclaimer when retrieval is too weak or the model disclaims coverage.
type Service struct {
	retriever           *retrieval.Service
	completer           ai.Completer
	similarityThreshold float64
}

func NewService(retriever *retrieval.Service, completer ai.Completer, similarityThreshold float64) *Service {
	return &Service{retriever: retriever, completer: completer, similarityThreshold: similarityThreshold}
}

func (s *Service) Answer(ctx context.Context, documentID, question string) (*Answer, error) {
	chunks, err := s.retriever.Retrieve(ctx, documentID, question, retrievalK)
	if err != nil {
		return nil, err
	}

	tag := prompting.Classify(question)
	prompt := prompting.BuildPrompt(tag, chunks, question)

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	processed := prompting.PostProcess(raw)

	fromDocument := prompting.FromDocument(chunks, processed, s.similarityThreshold)
	if !fromDocument {
		fallbackPrompt := prompting.BuildFallbackPrompt(question)
		fallbackRaw, err := s.completer.Complete(ctx, fallbackPrompt)
		if err != nil {
			return nil, err
		}
		return &Answer{
			Answer:       prompting.PostProcess(fallbackRaw),
			Sources:      nil,
			FromDocument: false,
		}, nil
	}

	return &Answer{
		Answer:       processed,
		Sources:      sources(chunks),
		FromDocument: true,
	}, nil
}

func sources(chunks []models.RetrievedChunk) []Source {
	n := len(chunks)
	if n > maxSources {
		n = maxSources
	}
	out := make([]Source, 0, n)
	for i := 0; i < n; i++ {
		c := chunks[i]
		text := c.Text
		if len(text) > sourceTruncateChars {
			text = strings.TrimSpace(text[:sourceTruncateChars])
		}
		out = append(out, Source{
			Filename:   c.Metadata.Filename,
			PageNumber: c.Metadata.PageNumber,
			Text:       text,
		})
	}
	return out
}
