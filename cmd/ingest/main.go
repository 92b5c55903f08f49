package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/joho/godotenv"

	"insuranceqa/config"
	"insuranceqa/services"
)

func main() {
	csvPath := flag.String("csv", "", "path to the knowledge base CSV (overrides config)")
	watch := flag.Bool("watch", false, "keep running and re-ingest when the CSV changes")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load config: %v", err)
	}
	path := cfg.KB.CSVPath
	if *csvPath != "" {
		path = *csvPath
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second,
	}

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.Chroma.URL))
	if err != nil {
		log.Fatalf("FATAL: Failed to create chroma client: %v", err)
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			log.Printf("Warning: Failed to close chroma client: %v", err)
		}
	}()

	collection, err := services.GetOrCreateCollection(context.Background(), chromaClient, cfg.Chroma.Collection)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	index := services.NewChromaIndex(collection)
	embedder := services.NewOllamaEmbedder(httpClient, cfg.Ollama.URL, cfg.Ollama.EmbedModel)
	indexer := services.NewIndexer(index, embedder)

	report, err := indexer.IngestFile(context.Background(), path)
	if err != nil {
		log.Fatalf("FATAL: Ingestion failed: %v", err)
	}
	log.Printf("Ingestion report: added=%d skipped_duplicate=%d rejected=%d",
		report.Added, report.SkippedDuplicate, report.Rejected)

	if *watch {
		indexer.WatchFile(context.Background(), path)
	}
}
