package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"insuranceqa/models"
)

// EmbeddingProvider turns text into a fixed-dimension vector. Indexing and
// querying share one provider so both sides live in the same vector space.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// embedAttempts bounds retries against the embedding service. The call is
// side-effect free, so retrying a failed attempt is safe.
const embedAttempts = 2

// OllamaEmbedder generates embeddings through a local Ollama instance.
type OllamaEmbedder struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewOllamaEmbedder creates an embedder for the given Ollama endpoint. The
// http.Client's timeout bounds every call.
func NewOllamaEmbedder(client *http.Client, baseURL, model string) *OllamaEmbedder {
	return &OllamaEmbedder{httpClient: client, baseURL: baseURL, model: model}
}

// Embed returns the embedding for one text, retrying once on failure.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= embedAttempts; attempt++ {
		vector, err := o.embedOnce(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Printf("SERVICE WARN: embedding attempt %d failed: %v", attempt, err)
	}
	return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, lastErr)
}

func (o *OllamaEmbedder) embedOnce(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(models.OllamaEmbedRequest{
		Model:  o.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embeddings", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama embedding api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp models.OllamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", err)
	}
	return ollamaResp.Embedding, nil
}
