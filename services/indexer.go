package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"insuranceqa/models"
)

// Indexer performs bulk ingestion runs against the vector index. It holds no
// state between runs; the collection itself is the source of truth for what
// is already indexed.
type Indexer struct {
	index    VectorIndex
	embedder EmbeddingProvider
}

// NewIndexer creates an indexer over the given index and embedding provider.
func NewIndexer(index VectorIndex, embedder EmbeddingProvider) *Indexer {
	return &Indexer{index: index, embedder: embedder}
}

// Ingest normalizes, deduplicates, embeds and inserts the given rows.
// Rows that fail normalization are rejected individually and the batch keeps
// going. Records whose content hash is already present, either in the
// collection or earlier in the same batch, are skipped first-wins, so no two
// entries ever carry the same hash. Re-running with the same input adds
// nothing.
func (s *Indexer) Ingest(ctx context.Context, rows []map[string]string) (models.IngestReport, error) {
	var report models.IngestReport

	existing, err := s.index.AllRecords(ctx)
	if err != nil {
		return report, fmt.Errorf("could not load current index state: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, rec := range existing {
		if rec.ContentHash != "" {
			seen[rec.ContentHash] = true
		}
	}
	log.Printf("INDEXER: Found %d entries currently in the index.", len(seen))

	for _, row := range rows {
		rec, err := NormalizeRow(row)
		if err != nil {
			log.Printf("INDEXER WARN: rejecting row: %v", err)
			report.Rejected++
			continue
		}
		if seen[rec.ContentHash] {
			report.SkippedDuplicate++
			continue
		}

		embedding, err := s.embedder.Embed(ctx, rec.Question)
		if err != nil {
			return report, fmt.Errorf("could not embed question %q: %w", rec.Question, err)
		}
		if err := s.index.Insert(ctx, embedding, rec); err != nil {
			return report, fmt.Errorf("could not insert record: %w", err)
		}
		seen[rec.ContentHash] = true
		report.Added++
	}

	log.Printf("INDEXER: Ingestion finished: %d added, %d duplicates skipped, %d rejected.",
		report.Added, report.SkippedDuplicate, report.Rejected)
	return report, nil
}

// IngestFile loads the CSV at path and runs one ingestion pass over it.
func (s *Indexer) IngestFile(ctx context.Context, path string) (models.IngestReport, error) {
	rows, err := LoadCSVRows(path)
	if err != nil {
		return models.IngestReport{}, err
	}
	log.Printf("INDEXER: Loaded %d rows from %s", len(rows), path)
	return s.Ingest(ctx, rows)
}

// WatchFile re-runs ingestion whenever the knowledge-base file is written.
// Events are handled on this goroutine one run at a time, which keeps the
// single-writer assumption intact. Blocks until the context is cancelled.
func (s *Indexer) WatchFile(ctx context.Context, path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER ERROR: Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors often replace the file on
	// save, which would drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Printf("WATCHER ERROR: Failed to add path to watcher: %v", err)
		return
	}
	log.Printf("WATCHER: Watching %s for updates", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Printf("WATCHER: Knowledge base updated: %s. Re-ingesting...", event.Name)
				if _, err := s.IngestFile(ctx, path); err != nil {
					log.Printf("WATCHER ERROR: Re-ingestion failed: %v", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("WATCHER ERROR: %v", err)
		case <-ctx.Done():
			log.Println("WATCHER: Context cancelled, shutting down watcher.")
			return
		}
	}
}

// LoadCSVRows reads the tabular knowledge-base file into raw rows keyed by
// the header names. Short rows are padded with empty fields downstream by
// the normalizer's missing-field coercion.
func LoadCSVRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open knowledge base file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}

	var rows []map[string]string
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read csv row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
