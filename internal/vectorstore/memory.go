package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"study-material-platform/models"
)

// MemoryStore is a flat-slice, cosine-similarity Store. It is the
// default for local runs and the backing implementation for every unit
// test that exercises retrieval without a live Qdrant instance.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string][]models.Chunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string][]models.Chunk)}
}

func (m *MemoryStore) Upsert(_ context.Context, namespace string, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces[namespace] = append(m.namespaces[namespace], chunks...)
	return nil
}

func (m *MemoryStore) Query(_ context.Context, namespace string, queryVector []float32, topK int) ([]models.RetrievedChunk, error) {
	if topK <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	chunks := append([]models.Chunk(nil), m.namespaces[namespace]...)
	m.mu.RUnlock()

	results := make([]models.RetrievedChunk, 0, len(chunks))
	for _, c := range chunks {
		results = append(results, models.RetrievedChunk{
			Chunk:      c,
			Similarity: cosineSimilarity(queryVector, c.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if len(results[i].Text) != len(results[j].Text) {
			return len(results[i].Text) > len(results[j].Text)
		}
		return results[i].Metadata.ChunkIndex < results[j].Metadata.ChunkIndex
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (m *MemoryStore) List(_ context.Context) ([]NamespaceInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]NamespaceInfo, 0, len(m.namespaces))
	for ns, chunks := range m.namespaces {
		if len(chunks) == 0 {
			continue
		}
		out = append(out, NamespaceInfo{
			Namespace:   ns,
			Filename:    chunks[0].Metadata.Filename,
			VectorCount: len(chunks),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Namespace < out[j].Namespace })
	return out, nil
}

func (m *MemoryStore) DeleteNamespace(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.namespaces, namespace)
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
