package retrieval

import (
	"context"
	"strings"
	"testing"

	"study-material-platform/internal/vectorstore"
	"study-material-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}
func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}
func (fakeEmbedder) Dimensions() int { return 1 }

// recordingStore is a minimal vectorstore.Store stub that always returns a
// fixed candidate set, regardless of the query vector.
type recordingStore struct {
	results []models.RetrievedChunk
}

func (r *recordingStore) Upsert(ctx context.Context, namespace string, chunks []models.Chunk) error {
	return nil
}
func (r *recordingStore) Query(ctx context.Context, namespace string, queryVector []float32, topK int) ([]models.RetrievedChunk, error) {
	return r.results, nil
}
func (r *recordingStore) List(ctx context.Context) ([]vectorstore.NamespaceInfo, error) {
	return nil, nil
}
func (r *recordingStore) DeleteNamespace(ctx context.Context, namespace string) error {
	return nil
}

func longText(n int) string {
	return strings.Repeat("word ", n)
}

func TestRetrieveRanksBySimilarityThenLength(t *testing.T) {
	store := &recordingStore{
		results: []models.RetrievedChunk{
			{Chunk: models.Chunk{Text: longText(30), Metadata: models.ChunkMetadata{ChunkIndex: 1}}, Similarity: 0.5},
			{Chunk: models.Chunk{Text: longText(30), Metadata: models.ChunkMetadata{ChunkIndex: 0}}, Similarity: 0.9},
		},
	}
	svc := NewService(fakeEmbedder{}, store, Config{MaxContextTokens: 4000, ResponseReserve: 500})
	out, err := svc.Retrieve(context.Background(), "doc-1", "question", 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 0.9, out[0].Similarity)
}

func TestRetrieveFiltersShortChunks(t *testing.T) {
	store := &recordingStore{
		results: []models.RetrievedChunk{
			{Chunk: models.Chunk{Text: "short"}, Similarity: 0.99},
			{Chunk: models.Chunk{Text: longText(30)}, Similarity: 0.1},
		},
	}
	svc := NewService(fakeEmbedder{}, store, Config{MaxContextTokens: 4000, ResponseReserve: 500})
	out, err := svc.Retrieve(context.Background(), "doc-1", "question", 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0.1, out[0].Similarity)
}

func TestRetrieveZeroKReturnsNil(t *testing.T) {
	svc := NewService(fakeEmbedder{}, &recordingStore{}, Config{MaxContextTokens: 4000, ResponseReserve: 500})
	out, err := svc.Retrieve(context.Background(), "doc-1", "question", 0)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestBudgetTruncatesOversizedChunkAtSentenceBoundary(t *testing.T) {
	svc := &Service{cfg: Config{MaxContextTokens: 40, ResponseReserve: 0}}
	chunk := models.RetrievedChunk{Chunk: models.Chunk{Text: "First sentence is here. " + longText(50)}}
	out := svc.budget([]models.RetrievedChunk{chunk}, "q")
	if len(out) == 1 {
		assert.True(t, strings.HasSuffix(out[0].Text, "."))
	}
}

func TestBudgetDropsEverythingWhenNoRoomRemains(t *testing.T) {
	svc := &Service{cfg: Config{MaxContextTokens: 5, ResponseReserve: 10}}
	out := svc.budget([]models.RetrievedChunk{{Chunk: models.Chunk{Text: longText(20)}}}, "q")
	assert.Nil(t, out)
}
