package models

// OllamaEmbedRequest is the body of an Ollama embeddings API call.
type OllamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// OllamaEmbedResponse carries the embedding back from the Ollama API.
type OllamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}
