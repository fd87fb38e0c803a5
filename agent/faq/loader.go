package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	contractx "github.com/robocare/support-agent/agent/contract"
)

const upsertBatchSize = 64

// Entry is one FAQ record to be embedded and stored.
type Entry struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Dialogue    string `json:"dialogue"`
}

// collectionAdmin is the slice of the qdrant client the loader needs.
type collectionAdmin interface {
	CollectionExists(ctx context.Context, collection string) (bool, error)
	CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error
	Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
}

// Loader seeds the FAQ collection. It is a maintenance-time writer; the
// retriever never mutates the collection.
type Loader struct {
	client     collectionAdmin
	embedder   Embedder
	collection string
	dimension  int
}

func NewLoader(client collectionAdmin, embedder Embedder, cfg Config) (*Loader, error) {
	if client == nil {
		return nil, errors.New("qdrant client is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	collection := strings.TrimSpace(cfg.Collection)
	if collection == "" {
		return nil, errors.New("collection name is required")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("embedding dimension must be positive")
	}
	return &Loader{
		client:     client,
		embedder:   embedder,
		collection: collection,
		dimension:  cfg.Dimension,
	}, nil
}

// EnsureCollection creates the collection if absent. Idempotent.
func (l *Loader) EnsureCollection(ctx context.Context) error {
	exists, err := l.client.CollectionExists(ctx, l.collection)
	if err != nil {
		return fmt.Errorf("%w: check collection=%s: %v", contractx.ErrRetrievalUnavailable, l.collection, err)
	}
	if exists {
		return nil
	}

	err = l.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: l.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(l.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: create collection=%s: %v", contractx.ErrRetrievalUnavailable, l.collection, err)
	}
	return nil
}

// Upsert embeds and writes entries in batches. Entries without an id get a
// fresh UUID so re-running the loader with explicit ids stays idempotent.
func (l *Loader) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.Description) == "" {
			return fmt.Errorf("%w: entry %d has empty description", contractx.ErrValidation, i)
		}

		vector, err := l.embedder.Embed(ctx, entry.Description)
		if err != nil {
			return fmt.Errorf("%w: embed entry %d: %v", contractx.ErrRetrievalUnavailable, i, err)
		}
		if len(vector) != l.dimension {
			return fmt.Errorf("%w: entry %d embedding dimension=%d, collection expects %d",
				contractx.ErrValidation, i, len(vector), l.dimension)
		}

		id := strings.TrimSpace(entry.ID)
		if id == "" {
			id = uuid.NewString()
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(vector...),
			Payload: map[string]*qdrant.Value{
				"description": qdrant.NewValueString(entry.Description),
				"dialogue":    qdrant.NewValueString(entry.Dialogue),
			},
		})
	}

	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		_, err := l.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: l.collection,
			Points:         points[start:end],
		})
		if err != nil {
			return fmt.Errorf("%w: upsert batch %d-%d: %v", contractx.ErrRetrievalUnavailable, start, end, err)
		}
	}
	return nil
}
