package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"insuranceqa/models"
	"insuranceqa/services"
)

// ChatController handles the HTTP requests for the QA API. It depends on the
// QueryService to perform the actual business logic.
type ChatController struct {
	queryService services.QueryService
}

// NewChatController is called from main to inject the service dependency.
func NewChatController(service services.QueryService) *ChatController {
	return &ChatController{queryService: service}
}

// Chat is the Gin handler for the POST /chat endpoint.
func (c *ChatController) Chat(ctx *gin.Context) {
	var req models.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "question must not be empty"})
		return
	}

	result, err := c.queryService.AnswerQuestion(ctx.Request.Context(), req.Question, req.Country)
	if err != nil {
		// The service layer already logged the cause.
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate answer"})
		return
	}
	if !result.Found {
		ctx.JSON(http.StatusOK, gin.H{"answer": result.FinalText})
		return
	}

	ctx.JSON(http.StatusOK, models.ChatResponse{
		Query:      req.Question,
		Country:    req.Country,
		Answer:     result.FinalText,
		RawAnswer:  result.RawAnswer,
		RawComment: result.RawComment,
		SourceMetadata: map[string]interface{}{
			"Country": result.Source.Country,
			"Answer":  result.Source.Answer,
			"Comment": result.Source.Comment,
			"hash":    result.Source.ContentHash,
		},
	})
}

// Health is the Gin handler for the GET /health endpoint.
func (c *ChatController) Health(ctx *gin.Context) {
	dbLoaded, llmReady := c.queryService.Status(ctx.Request.Context())
	status := "healthy"
	if !dbLoaded || !llmReady {
		status = "degraded"
	}
	ctx.JSON(http.StatusOK, models.HealthResponse{
		Status:   status,
		DBLoaded: dbLoaded,
		LLMReady: llmReady,
	})
}
