package qa

import (
	"context"
	"strings"
	"testing"

	"study-material-platform/internal/retrieval"
	"study-material-platform/internal/vectorstore"
	"study-material-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) { return []float32{1}, nil }
func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}
func (stubEmbedder) Dimensions() int { return 1 }

type stubStore struct {
	chunks []models.RetrievedChunk
}

func (s stubStore) Upsert(ctx context.Context, namespace string, chunks []models.Chunk) error {
	return nil
}
func (s stubStore) Query(ctx context.Context, namespace string, queryVector []float32, topK int) ([]models.RetrievedChunk, error) {
	return s.chunks, nil
}
func (s stubStore) List(ctx context.Context) ([]vectorstore.NamespaceInfo, error) { return nil, nil }
func (s stubStore) DeleteNamespace(ctx context.Context, namespace string) error   { return nil }

type scriptedCompleter struct {
	responses []string
	calls     int
}

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	r := c.responses[c.calls]
	c.calls++
	return r, nil
}

func strongChunks() []models.RetrievedChunk {
	return []models.RetrievedChunk{
		{
			Chunk: models.Chunk{
				Text:     "Photosynthesis converts light energy into chemical energy in plants.",
				Metadata: models.ChunkMetadata{Filename: "bio.pdf", PageNumber: 4},
			},
			Similarity: 0.88,
		},
	}
}

func TestAnswerGroundedWhenRetrievalIsStrong(t *testing.T) {
	store := stubStore{chunks: strongChunks()}
	retriever := retrieval.NewService(stubEmbedder{}, store, retrieval.Config{MaxContextTokens: 4000, ResponseReserve: 500})
	completer := &scriptedCompleter{responses: []string{"Photosynthesis converts light into chemical energy."}}
	svc := NewService(retriever, completer, 0.3)

	answer, err := svc.Answer(context.Background(), "doc-1", "What is photosynthesis?")
	require.NoError(t, err)
	assert.True(t, answer.FromDocument)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "bio.pdf", answer.Sources[0].Filename)
	assert.Equal(t, 1, completer.calls)
}

func TestAnswerFallsBackWhenRetrievalIsWeak(t *testing.T) {
	store := stubStore{chunks: []models.RetrievedChunk{{Similarity: 0.05, Chunk: models.Chunk{Text: "unrelated filler text of no use here"}}}}
	retriever := retrieval.NewService(stubEmbedder{}, store, retrieval.Config{MaxContextTokens: 4000, ResponseReserve: 500})
	completer := &scriptedCompleter{responses: []string{"irrelevant primary answer", "This information is not in the uploaded materials. General knowledge follows."}}
	svc := NewService(retriever, completer, 0.3)

	answer, err := svc.Answer(context.Background(), "doc-1", "What is quantum tunneling?")
	require.NoError(t, err)
	assert.False(t, answer.FromDocument)
	assert.Nil(t, answer.Sources)
	assert.Equal(t, 2, completer.calls)
}

func TestAnswerFallsBackOnDisclaimingPrimaryAnswer(t *testing.T) {
	store := stubStore{chunks: strongChunks()}
	retriever := retrieval.NewService(stubEmbedder{}, store, retrieval.Config{MaxContextTokens: 4000, ResponseReserve: 500})
	completer := &scriptedCompleter{responses: []string{"This does not contain the answer you need.", "Fallback general-knowledge answer."}}
	svc := NewService(retriever, completer, 0.3)

	answer, err := svc.Answer(context.Background(), "doc-1", "What is photosynthesis?")
	require.NoError(t, err)
	assert.False(t, answer.FromDocument)
}

func TestSourcesAreTruncatedAndCapped(t *testing.T) {
	chunks := make([]models.RetrievedChunk, 5)
	for i := range chunks {
		chunks[i] = models.RetrievedChunk{Chunk: models.Chunk{Text: "x"}}
	}
	chunks[0].Text = strings.Repeat("y", 400)
	out := sources(chunks)
	assert.Len(t, out, maxSources)
	assert.Len(t, out[0].Text, sourceTruncateChars)
}
