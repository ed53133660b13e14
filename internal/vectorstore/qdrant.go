package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"study-material-platform/internal/apperr"
	"study-material-platform/internal/logger"
	"study-material-platform/internal/retry"
	"study-material-platform/models"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore implements Store over github.com/qdrant/go-client/qdrant,
// mapping each document namespace onto its own collection named
// "doc-<namespace>", generalizing the per-repo-branch collection naming
// used for code search.
type QdrantStore struct {
	client     *qdrant.Client
	dimensions uint64
}

// NewQdrantStore dials Qdrant at host:port (or "host:port" string).
// Collections are created lazily per namespace on first Upsert.
func NewQdrantStore(addr string, dimensions int) (*QdrantStore, error) {
	host, port := parseAddr(addr)
	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}
	return &QdrantStore{client: client, dimensions: uint64(dimensions)}, nil
}

func collectionName(namespace string) string {
	return "doc-" + namespace
}

func (qs *QdrantStore) ensureCollection(ctx context.Context, namespace string) error {
	name := collectionName(namespace)
	exists, err := qs.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}

	m := uint64(16)
	efConstruct := uint64(128)
	err = qs.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     qs.dimensions,
			Distance: qdrant.Distance_Cosine,
			HnswConfig: &qdrant.HnswConfigDiff{
				M:           &m,
				EfConstruct: &efConstruct,
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	logger.Info("qdrant collection created", "collection", name)
	return nil
}

func (qs *QdrantStore) Upsert(ctx context.Context, namespace string, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := qs.ensureCollection(ctx, namespace); err != nil {
		return apperr.UpstreamError("vector store collection setup failed", err)
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, c := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(c.ChunkID),
			Vectors: qdrant.NewVectors(c.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":        c.Text,
				"filename":    c.Metadata.Filename,
				"page_number": int64(c.Metadata.PageNumber),
				"chunk_index": int64(c.Metadata.ChunkIndex),
				"char_start":  int64(c.Metadata.CharStart),
				"char_end":    int64(c.Metadata.CharEnd),
			}),
		})
	}

	err := retry.Do(ctx, retry.Transient, func(ctx context.Context) error {
		_, err := qs.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collectionName(namespace),
			Points:         points,
		})
		return err
	})
	if err != nil {
		return apperr.UpstreamError("vector store upsert failed", err)
	}
	return nil
}

func (qs *QdrantStore) Query(ctx context.Context, namespace string, queryVector []float32, topK int) ([]models.RetrievedChunk, error) {
	if topK <= 0 {
		return nil, nil
	}

	exists, err := qs.client.CollectionExists(ctx, collectionName(namespace))
	if err != nil {
		return nil, apperr.UpstreamError("vector store query failed", err)
	}
	if !exists {
		return nil, nil
	}

	var points []*qdrant.ScoredPoint
	err = retry.Do(ctx, retry.Transient, func(ctx context.Context) error {
		var qerr error
		points, qerr = qs.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: collectionName(namespace),
			Query:          qdrant.NewQuery(queryVector...),
			Limit:          uintPtr(uint64(topK)),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		return qerr
	})
	if err != nil {
		return nil, apperr.UpstreamError("vector store query failed", err)
	}

	out := make([]models.RetrievedChunk, 0, len(points))
	for _, p := range points {
		payload := p.Payload
		out = append(out, models.RetrievedChunk{
			Chunk: models.Chunk{
				ChunkID: idToString(p.Id),
				Text:    getString(payload, "text"),
				Metadata: models.ChunkMetadata{
					Filename:   getString(payload, "filename"),
					PageNumber: int(getInt(payload, "page_number")),
					ChunkIndex: int(getInt(payload, "chunk_index")),
					CharStart:  int(getInt(payload, "char_start")),
					CharEnd:    int(getInt(payload, "char_end")),
				},
			},
			Similarity: float64(p.Score),
		})
	}
	return out, nil
}

func (qs *QdrantStore) List(ctx context.Context) ([]NamespaceInfo, error) {
	collections, err := qs.client.ListCollections(ctx)
	if err != nil {
		return nil, apperr.UpstreamError("vector store list failed", err)
	}

	out := make([]NamespaceInfo, 0, len(collections))
	for _, name := range collections {
		if !strings.HasPrefix(name, "doc-") {
			continue
		}
		namespace := strings.TrimPrefix(name, "doc-")
		count, err := qs.client.Count(ctx, &qdrant.CountPoints{CollectionName: name})
		if err != nil {
			continue
		}

		filename := ""
		points, _, err := qs.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: name,
			Limit:          uint32Ptr(1),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err == nil && len(points) > 0 {
			filename = getString(points[0].Payload, "filename")
		}

		out = append(out, NamespaceInfo{
			Namespace:   namespace,
			Filename:    filename,
			VectorCount: int(count),
		})
	}
	return out, nil
}

func (qs *QdrantStore) DeleteNamespace(ctx context.Context, namespace string) error {
	err := qs.client.DeleteCollection(ctx, collectionName(namespace))
	if err != nil {
		return apperr.UpstreamError("vector store namespace deletion failed", err)
	}
	return nil
}

func getString(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func getInt(payload map[string]*qdrant.Value, key string) int64 {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	return v.GetIntegerValue()
}

func idToString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

func uintPtr(u uint64) *uint64   { return &u }
func uint32Ptr(u uint32) *uint32 { return &u }

func parseAddr(addr string) (string, int) {
	host, portStr, found := strings.Cut(addr, ":")
	if !found {
		return addr, 6334
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6334
	}
	return host, port
}
