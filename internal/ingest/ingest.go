// Package ingest implements the ingestion operation: extraction,
// chunking, batch embedding, and atomic upsert into a namespaced vector
// store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"study-material-platform/internal/ai"
	"study-material-platform/internal/apperr"
	"study-material-platform/internal/chunk"
	"study-material-platform/internal/logger"
	"study-material-platform/internal/pdfx"
	"study-material-platform/internal/telemetry"
	"study-material-platform/internal/vectorstore"
	"study-material-platform/models"

	"github.com/google/uuid"
)

// maxEmbedBatch bounds how many chunks are embedded in a single batch
// call per the concurrency model's "bounded batch size of <=96 chunks".
const maxEmbedBatch = 96

// File is one uploaded PDF.
type File struct {
	Filename string
	Content  []byte
}

// Result is the response of a successful ingestion.
type Result struct {
	DocumentID    string
	Filenames     []string
	PageCount     int
	ChunksCreated int
}

// Service owns the embedder and vector store used to ingest documents.
type Service struct {
	embedder ai.Embedder
	store    vectorstore.Store
	chunkCfg chunk.Config
	maxPages int
	metrics  *telemetry.Metrics
}

func NewService(embedder ai.Embedder, store vectorstore.Store, chunkCfg chunk.Config, maxPages int, metrics *telemetry.Metrics) *Service {
	return &Service{embedder: embedder, store: store, chunkCfg: chunkCfg, maxPages: maxPages, metrics: metrics}
}

// Ingest extracts, chunks, embeds, and upserts every file as one new
// document namespace. On any failure after chunks have started landing
// in the store, the namespace is deleted so no half-indexed document is
// ever exposed (spec 4.3).
func (s *Service) Ingest(ctx context.Context, files []File) (result *Result, err error) {
	start := time.Now()
	defer func() {
		if s.metrics == nil {
			return
		}
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.RecordPDFProcessing(time.Since(start).Seconds(), status)
	}()

	if len(files) == 0 {
		return nil, apperr.BadInput("at least one file is required", nil)
	}

	var pages []chunk.Page
	var filenames []string
	totalPages := 0

	for fileIdx, f := range files {
		extracted, err := pdfx.Extract(f.Content)
		if err != nil {
			return nil, err
		}
		filenames = append(filenames, f.Filename)
		for i, text := range extracted.Pages {
			if i == 0 && fileIdx > 0 {
				text = fmt.Sprintf("\n\n--- %s ---\n\n%s", f.Filename, text)
			}
			pages = append(pages, chunk.Page{
				Number:   totalPages + i + 1,
				Filename: f.Filename,
				Text:     text,
			})
		}
		totalPages += extracted.PageCount
	}

	if totalPages > s.maxPages {
		return nil, apperr.BadInput(fmt.Sprintf("document exceeds the %d page limit", s.maxPages), nil)
	}

	chunks := chunk.Chunks(pages, s.chunkCfg)
	if len(chunks) == 0 {
		return nil, apperr.BadInput("document contains no extractable text", nil)
	}

	documentID := uuid.NewString()

	if err := s.embedAndUpsert(ctx, documentID, chunks); err != nil {
		if delErr := s.store.DeleteNamespace(context.Background(), documentID); delErr != nil {
			logger.Error("failed to roll back partially-ingested namespace", "document_id", documentID, "error", delErr)
		}
		return nil, err
	}

	return &Result{
		DocumentID:    documentID,
		Filenames:     filenames,
		PageCount:     totalPages,
		ChunksCreated: len(chunks),
	}, nil
}

func (s *Service) embedAndUpsert(ctx context.Context, documentID string, chunks []models.Chunk) error {
	for start := 0; start < len(chunks); start += maxEmbedBatch {
		end := start + maxEmbedBatch
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		for i := range batch {
			batch[i].Embedding = vectors[i]
		}

		if err := s.store.Upsert(ctx, documentID, batch); err != nil {
			return err
		}
	}
	return nil
}

// ListDocuments reads every namespace currently held by the vector
// store.
func (s *Service) ListDocuments(ctx context.Context) ([]vectorstore.NamespaceInfo, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return infos, nil
}
