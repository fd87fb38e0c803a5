package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/robocare/support-agent/agent/contract"
)

// Embedder turns free text into a fixed-dimension vector. The model must be
// the same one used to populate the collection; that consistency is a
// precondition the system does not self-verify.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type EmbedderConfig struct {
	Model string `envconfig:"MODEL" split_words:"true" default:"text-embedding-3-small"`
}

// OpenAIEmbedder computes embeddings through an OpenAI-compatible endpoint.
// Safe to share across concurrent callers.
type OpenAIEmbedder struct {
	client *openaisdk.Client
	model  string
}

func NewOpenAIEmbedder(client *openaisdk.Client, cfg EmbedderConfig) (*OpenAIEmbedder, error) {
	if client == nil {
		return nil, errors.New("embeddings client is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("embedding model is required")
	}
	return &OpenAIEmbedder{client: client, model: model}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Model: openaisdk.EmbeddingModel(e.model),
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", contractx.ErrRetrievalUnavailable, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: embeddings response is empty", contractx.ErrRetrievalUnavailable)
	}

	raw := resp.Data[0].Embedding
	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}
	return vector, nil
}
