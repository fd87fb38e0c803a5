package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	contractx "github.com/robocare/support-agent/agent/contract"
)

const defaultSearchLimit = 3

type Config struct {
	Host       string `envconfig:"GRPC_HOST" split_words:"true" default:"localhost"`
	Port       int    `envconfig:"GRPC_PORT" split_words:"true" default:"6334"`
	APIKey     string `envconfig:"API_KEY" split_words:"true"`
	UseTLS     bool   `envconfig:"USE_TLS" split_words:"true" default:"false"`
	Collection string `envconfig:"COLLECTION" split_words:"true" default:"customer-service-robot-support"`
	Dimension  int    `envconfig:"DIMENSION" split_words:"true" default:"1536"`
}

// Result is one FAQ entry ranked by similarity to the query. Score and
// order are whatever the vector store returns.
type Result struct {
	Description string  `json:"description"`
	Dialogue    string  `json:"dialogue"`
	Score       float32 `json:"score"`
}

// pointsQuerier is the slice of the qdrant client the retriever needs.
type pointsQuerier interface {
	Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
}

// Retriever maps a free-text query to the top-K most similar FAQ entries.
// Read-only; holds no mutable state beyond the shared client and embedder.
type Retriever struct {
	client     pointsQuerier
	embedder   Embedder
	collection string
}

// NewClient dials the qdrant gRPC endpoint.
func NewClient(cfg Config) (*qdrant.Client, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, errors.New("qdrant host is required")
	}
	port := cfg.Port
	if port <= 0 {
		port = 6334
	}

	clientCfg := &qdrant.Config{
		Host:   host,
		Port:   port,
		UseTLS: cfg.UseTLS,
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		clientCfg.APIKey = key
	}

	client, err := qdrant.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create qdrant client: %v", contractx.ErrRetrievalUnavailable, err)
	}
	return client, nil
}

func NewRetriever(client pointsQuerier, embedder Embedder, collection string) (*Retriever, error) {
	if client == nil {
		return nil, errors.New("qdrant client is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return nil, errors.New("collection name is required")
	}
	return &Retriever{
		client:     client,
		embedder:   embedder,
		collection: collection,
	}, nil
}

// Search returns up to limit entries, most similar first. Zero matches is an
// empty slice, not an error; only backend failures propagate, wrapped as
// ErrRetrievalUnavailable. No caching, re-scoring, or deduplication.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", contractx.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, contractx.ErrRetrievalUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: embed query: %v", contractx.ErrRetrievalUnavailable, err)
	}

	topK := uint64(limit)
	points, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &topK,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query collection=%s: %v", contractx.ErrRetrievalUnavailable, r.collection, err)
	}

	results := make([]Result, 0, len(points))
	for _, point := range points {
		if point == nil {
			continue
		}
		res := Result{Score: point.Score}
		if payload := point.Payload; payload != nil {
			if v, ok := payload["description"]; ok {
				res.Description = v.GetStringValue()
			}
			if v, ok := payload["dialogue"]; ok {
				res.Dialogue = v.GetStringValue()
			}
		}
		results = append(results, res)
	}
	return results, nil
}
