package models

// ChatResponse is the successful payload of POST /chat. The raw fields and
// source metadata are returned for observability; Answer is the user-facing
// text.
type ChatResponse struct {
	Query          string                 `json:"query"`
	Country        string                 `json:"country"`
	Answer         string                 `json:"answer"`
	RawAnswer      string                 `json:"raw_answer"`
	RawComment     string                 `json:"raw_comment"`
	SourceMetadata map[string]interface{} `json:"source_metadata"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	DBLoaded bool   `json:"db_loaded"`
	LLMReady bool   `json:"llm_ready"`
}

// SynthesizedAnswer is the outcome of answering one query. Found is false
// when retrieval produced no candidates at all, in which case FinalText
// carries the fixed no-documents message.
type SynthesizedAnswer struct {
	FinalText  string
	RawAnswer  string
	RawComment string
	Source     Record
	Found      bool
}
