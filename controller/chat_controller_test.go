package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insuranceqa/models"
	"insuranceqa/services"
)

// stubQueryService returns canned results for handler tests.
type stubQueryService struct {
	result   *models.SynthesizedAnswer
	err      error
	dbLoaded bool
	llmReady bool
}

func (s *stubQueryService) AnswerQuestion(context.Context, string, string) (*models.SynthesizedAnswer, error) {
	return s.result, s.err
}

func (s *stubQueryService) Status(context.Context) (bool, bool) {
	return s.dbLoaded, s.llmReady
}

func newTestRouter(svc services.QueryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	c := NewChatController(svc)
	router.POST("/chat", c.Chat)
	router.GET("/health", c.Health)
	return router
}

func TestChat_Success(t *testing.T) {
	router := newTestRouter(&stubQueryService{result: &models.SynthesizedAnswer{
		Found:      true,
		FinalText:  "Submit Form A within 30 days.",
		RawAnswer:  "Submit Form A",
		RawComment: "within 30 days",
		Source: models.Record{
			Question:    "How to file a claim?",
			Country:     "Nigeria",
			Answer:      "Submit Form A",
			Comment:     "within 30 days",
			ContentHash: "abc123",
		},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"How to file a claim?","country":"Nigeria"}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "How to file a claim?", resp.Query)
	assert.Equal(t, "Nigeria", resp.Country)
	assert.Equal(t, "Submit Form A within 30 days.", resp.Answer)
	assert.Equal(t, "Submit Form A", resp.RawAnswer)
	assert.Equal(t, "within 30 days", resp.RawComment)
	assert.Equal(t, "Nigeria", resp.SourceMetadata["Country"])
	assert.Equal(t, "abc123", resp.SourceMetadata["hash"])
}

func TestChat_NoDocumentsShape(t *testing.T) {
	router := newTestRouter(&stubQueryService{result: &models.SynthesizedAnswer{
		Found:     false,
		FinalText: services.NoDocumentsMessage,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"anything"}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, services.NoDocumentsMessage, body["answer"])
	assert.Len(t, body, 1)
}

func TestChat_MissingQuestion(t *testing.T) {
	router := newTestRouter(&stubQueryService{})

	for _, payload := range []string{`{}`, `{"question":"   "}`, `{"country":"Nigeria"}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(payload))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload: %s", payload)
	}
}

func TestChat_ServiceError(t *testing.T) {
	router := newTestRouter(&stubQueryService{err: services.ErrEmbeddingService})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"q"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubQueryService{dbLoaded: true, llmReady: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.DBLoaded)
	assert.True(t, resp.LLMReady)
}

func TestHealth_Degraded(t *testing.T) {
	router := newTestRouter(&stubQueryService{dbLoaded: false, llmReady: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.False(t, resp.DBLoaded)
}
