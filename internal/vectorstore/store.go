// Package vectorstore defines the namespaced vector index boundary:
// each document_id maps to one namespace, scoping every chunk upserted
// or queried under it.
package vectorstore

import (
	"context"

	"study-material-platform/models"
)

// NamespaceInfo is returned by List: one entry per namespace currently
// holding at least one chunk.
type NamespaceInfo struct {
	Namespace   string
	Filename    string
	VectorCount int
}

// Store is the vector-store boundary the core programs against. A
// namespace is created implicitly on first Upsert and destroyed by
// DeleteNamespace; there is no separate create/open operation.
type Store interface {
	// Upsert writes chunks into namespace, each carrying its own
	// embedding. Implementations must make the whole batch visible
	// atomically from the caller's perspective — Ingest relies on this
	// to avoid exposing half-indexed documents.
	Upsert(ctx context.Context, namespace string, chunks []models.Chunk) error

	// Query returns up to topK chunks in namespace ranked by cosine
	// similarity to queryVector, most similar first.
	Query(ctx context.Context, namespace string, queryVector []float32, topK int) ([]models.RetrievedChunk, error)

	// List enumerates every namespace with at least one chunk.
	List(ctx context.Context) ([]NamespaceInfo, error)

	// DeleteNamespace removes every chunk under namespace. Used both for
	// explicit deletion and to roll back a failed ingestion.
	DeleteNamespace(ctx context.Context, namespace string) error
}
