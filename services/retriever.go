package services

import (
	"context"
	"fmt"
	"log"

	"insuranceqa/models"
)

// DefaultTopK is how many candidates a query retrieves.
const DefaultTopK = 3

// Retriever embeds a question once and runs the similarity search. It holds
// only read-only handles and is safe for concurrent use.
type Retriever struct {
	index    VectorIndex
	embedder EmbeddingProvider
}

// NewRetriever creates a retriever over the given index and embedder.
func NewRetriever(index VectorIndex, embedder EmbeddingProvider) *Retriever {
	return &Retriever{index: index, embedder: embedder}
}

// Retrieve returns up to k candidates, best match first. A non-empty country
// restricts the search to exact-equality matches on that jurisdiction;
// callers that want cross-country answers pass "". The index ordering is
// passed through unmodified.
func (r *Retriever) Retrieve(ctx context.Context, question, country string, k int) ([]models.Candidate, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	embedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query text: %w", err)
	}

	var filter *SearchFilter
	if country != "" {
		filter = &SearchFilter{Country: country}
		log.Printf("SERVICE: Querying index with country filter: '%s'", country)
	} else {
		log.Printf("SERVICE: Querying index without country filter.")
	}

	candidates, err := r.index.Search(ctx, embedding, k, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector index: %w", err)
	}
	log.Printf("SERVICE: Retrieved %d candidates", len(candidates))
	return candidates, nil
}
