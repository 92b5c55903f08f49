package main

import (
	"context"
	"log"
	"net/http"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"insuranceqa/config"
	"insuranceqa/controller"
	"insuranceqa/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load config: %v", err)
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

	// Serving requires an already populated collection; refuse to accept
	// traffic without one.
	collection, err := services.OpenCollection(context.Background(), chromaClient, cfg.Chroma.Collection)
	if err != nil {
		log.Fatalf("FATAL: %v. Run the ingest command first.", err)
	}
	index := services.NewChromaIndex(collection)

	count, err := index.Count(context.Background())
	if err != nil {
		log.Fatalf("FATAL: Failed to read collection '%s': %v", cfg.Chroma.Collection, err)
	}
	if count == 0 {
		log.Fatalf("FATAL: Collection '%s' is empty. Run the ingest command first.", cfg.Chroma.Collection)
	}
	log.Printf("Loaded collection '%s' with %d entries.", cfg.Chroma.Collection, count)

	geminiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create Gemini client: %v. Make sure GEMINI_API_KEY is set.", err)
	}
	log.Println("Successfully connected to Google Gemini.")

	embedder := services.NewOllamaEmbedder(httpClient, cfg.Ollama.URL, cfg.Ollama.EmbedModel)
	generator := services.NewGeminiGenerator(geminiClient, cfg.Gemini.Model)
	retriever := services.NewRetriever(index, embedder)
	synthesizer := services.NewSynthesizer(generator)
	queryService := services.NewQueryService(retriever, synthesizer, index, generator)
	chatController := controller.NewChatController(queryService)

	gin.SetMode(cfg.App.GinMode)
	router := gin.Default()

	// CORS for the frontend.
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", chatController.Health)
	router.POST("/chat", chatController.Chat)

	addr := cfg.HTTPAddr()
	log.Printf("Insurance QA backend server starting on http://%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}
