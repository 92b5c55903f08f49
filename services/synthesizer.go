package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"insuranceqa/models"
)

// Fixed responses returned without a generative call.
const (
	NoDocumentsMessage       = "No relevant documents found for your query."
	AnswerUnavailableMessage = "Answer not available in database."
)

// maxAnswerTokens bounds the synthesis completion; synthesisTimeout bounds
// the call itself so a stuck generator cannot pin a request.
const (
	maxAnswerTokens  = 300
	synthesisTimeout = 30 * time.Second
)

// sentinelValues are the spreadsheet placeholders that mean "no content".
var sentinelValues = map[string]bool{"nan": true, "none": true, "null": true, "": true}

// cleanField trims a raw field and maps sentinel placeholders to "".
func cleanField(value string) string {
	value = strings.TrimSpace(value)
	if sentinelValues[strings.ToLower(value)] {
		return ""
	}
	return value
}

// Synthesizer merges a retrieved record's answer and comment fields into one
// user-facing response through a single bounded generative call.
type Synthesizer struct {
	generator Generator
}

// NewSynthesizer creates a synthesizer backed by the given generator.
func NewSynthesizer(generator Generator) *Synthesizer {
	return &Synthesizer{generator: generator}
}

// Synthesize grounds the response on the best candidate only; later
// candidates travel along for observability but never reach the prompt.
// With no candidates, or with both fields empty after sentinel cleaning,
// a fixed message is returned and the generator is never called. A failed
// generator call returns ErrSynthesisUnavailable alongside the partial
// result so the caller can degrade to the raw fields.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, candidates []models.Candidate) (*models.SynthesizedAnswer, error) {
	if len(candidates) == 0 {
		log.Printf("SERVICE: No relevant documents found for query.")
		return &models.SynthesizedAnswer{FinalText: NoDocumentsMessage}, nil
	}

	top := candidates[0].Record
	answer := cleanField(top.Answer)
	comment := cleanField(top.Comment)

	result := &models.SynthesizedAnswer{
		Found:      true,
		RawAnswer:  answer,
		RawComment: comment,
		Source:     top,
	}

	if answer == "" && comment == "" {
		result.FinalText = AnswerUnavailableMessage
		return result, nil
	}

	log.Printf("SERVICE: Sending interpretation request to the generator...")
	genCtx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()
	text, err := s.generator.Generate(genCtx, buildMergePrompt(question, answer, comment), maxAnswerTokens)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrSynthesisUnavailable, err)
	}
	result.FinalText = strings.TrimSpace(text)
	return result, nil
}

// buildMergePrompt asks the generator to fold the comment into the answer.
func buildMergePrompt(question, answer, comment string) string {
	if answer == "" {
		answer = "N/A"
	}
	if comment == "" {
		comment = "N/A"
	}
	return fmt.Sprintf(`You are an insurance domain assistant.
The user asked: %q

Below is the retrieved information from the database:
- Answer: %s
- Comment: %s

Combine and interpret this information into a clear, natural, and helpful response for the user.
If the comment adds clarification, merge it smoothly into the answer.
Do not repeat the field labels and avoid placeholder phrasing like 'I don't have the answer for it kindly contact office'.
Answer in a professional, concise tone.`, question, answer, comment)
}
