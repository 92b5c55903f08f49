package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"

	"insuranceqa/models"
)

// SearchFilter restricts a similarity search to one jurisdiction. The match
// is exact equality; a nil filter makes the whole collection eligible.
type SearchFilter struct {
	Country string
}

// VectorIndex is the persistence boundary for (embedding, record) entries.
// Insert enforces no uniqueness; deduplication belongs to the Indexer.
type VectorIndex interface {
	Insert(ctx context.Context, embedding []float32, rec models.Record) error
	Search(ctx context.Context, embedding []float32, k int, filter *SearchFilter) ([]models.Candidate, error)
	AllRecords(ctx context.Context) ([]models.Record, error)
	Count(ctx context.Context) (int, error)
}

// chromaIndex stores entries in a ChromaDB collection. The question text is
// the document body; country, answer, comment and hash live in metadata
// under the same keys the original ingestion tooling used, so collections
// built by either tool stay interchangeable.
type chromaIndex struct {
	collection chromago.Collection
}

// NewChromaIndex wraps an already opened collection.
func NewChromaIndex(collection chromago.Collection) VectorIndex {
	return &chromaIndex{collection: collection}
}

// OpenCollection loads an existing collection for serving. A missing or
// unreachable collection is a startup-fatal condition, not a per-request one.
func OpenCollection(ctx context.Context, client chromago.Client, name string) (chromago.Collection, error) {
	collection, err := client.GetCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open collection %q: %v", ErrIndexUnavailable, name, err)
	}
	log.Printf("Successfully opened collection '%s'", name)
	return collection, nil
}

// GetOrCreateCollection creates the collection on the first ingestion run
// and reopens it on every later one.
func GetOrCreateCollection(ctx context.Context, client chromago.Client, name string) (chromago.Collection, error) {
	collection, err := client.GetOrCreateCollection(
		ctx,
		name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "insurance QA knowledge base"),
				chromago.NewStringAttribute("created_by", "ingest"),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get or create collection %q: %v", ErrIndexUnavailable, name, err)
	}
	log.Printf("Successfully got/created collection '%s'", name)
	return collection, nil
}

// Insert appends one entry. Entries are never updated in place; a changed
// record is a new entry.
func (c *chromaIndex) Insert(ctx context.Context, embedding []float32, rec models.Record) error {
	metadata := chromago.NewDocumentMetadata(
		chromago.NewStringAttribute("Country", rec.Country),
		chromago.NewStringAttribute("Answer", rec.Answer),
		chromago.NewStringAttribute("Comment", rec.Comment),
		chromago.NewStringAttribute("hash", rec.ContentHash),
	)
	err := c.collection.Add(ctx,
		chromago.WithIDs(chromago.DocumentID(uuid.New().String())),
		chromago.WithTexts(rec.Question),
		chromago.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithMetadatas(metadata),
	)
	if err != nil {
		return fmt.Errorf("failed to add record to chromadb: %w", err)
	}
	return nil
}

// Search returns up to k candidates in ascending distance order. When the
// filter matches fewer than k entries the shorter list is returned as-is;
// falling back to an unfiltered search is the caller's decision.
func (c *chromaIndex) Search(ctx context.Context, embedding []float32, k int, filter *SearchFilter) ([]models.Candidate, error) {
	opts := []chromago.CollectionQueryOption{
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithNResults(k),
	}
	if filter != nil {
		opts = append(opts, chromago.WithWhereQuery(chromago.EqString("Country", filter.Country)))
	}

	results, err := c.collection.Query(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var candidates []models.Candidate
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()
	if len(documentGroups) == 0 {
		return candidates, nil
	}
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		var metadata chromago.DocumentMetadata
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			metadata = metadataGroups[0][i]
		}
		score := 0.0
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			score = float64(distanceGroups[0][i])
		}
		candidates = append(candidates, models.Candidate{
			Record: recordFromDocument(doc.ContentString(), metadata),
			Score:  score,
		})
	}
	return candidates, nil
}

// AllRecords retrieves every committed entry, including ones inserted by
// earlier process runs. The Indexer uses this to compute existing
// fingerprints for deduplication.
func (c *chromaIndex) AllRecords(ctx context.Context) ([]models.Record, error) {
	results, err := c.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from chromadb: %w", err)
	}

	documents := results.GetDocuments()
	metadatas := results.GetMetadatas()
	records := make([]models.Record, 0, len(documents))
	for i, doc := range documents {
		var metadata chromago.DocumentMetadata
		if len(metadatas) > i {
			metadata = metadatas[i]
		}
		records = append(records, recordFromDocument(doc.ContentString(), metadata))
	}
	return records, nil
}

// Count reports the number of entries in the collection.
func (c *chromaIndex) Count(ctx context.Context) (int, error) {
	count, err := c.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// recordFromDocument rebuilds a Record from a stored document. The
// DocumentMetadata type exposes no map accessor, so the conversion goes
// through a JSON round-trip.
func recordFromDocument(question string, metadata chromago.DocumentMetadata) models.Record {
	rec := models.Record{Question: question}
	if metadata == nil {
		return rec
	}
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		log.Printf("WARN: could not marshal metadata for record: %v", err)
		return rec
	}
	var metaMap map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &metaMap); err != nil {
		log.Printf("WARN: could not unmarshal metadata for record: %v", err)
		return rec
	}
	rec.Country, _ = metaMap["Country"].(string)
	rec.Answer, _ = metaMap["Answer"].(string)
	rec.Comment, _ = metaMap["Comment"].(string)
	rec.ContentHash, _ = metaMap["hash"].(string)
	return rec
}
