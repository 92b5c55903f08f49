package services

import (
	"context"
	"errors"
	"log"

	"insuranceqa/models"
)

// QueryService is the single entry point the HTTP layer talks to.
type QueryService interface {
	AnswerQuestion(ctx context.Context, question, country string) (*models.SynthesizedAnswer, error)
	Status(ctx context.Context) (dbLoaded, llmReady bool)
}

// queryServiceImpl orchestrates retrieve-then-synthesize. It is stateless
// per call and safe to invoke concurrently: every field is an
// immutable-after-init, read-only handle.
type queryServiceImpl struct {
	retriever   *Retriever
	synthesizer *Synthesizer
	index       VectorIndex
	generator   Generator
}

// NewQueryService wires the pipeline together.
func NewQueryService(retriever *Retriever, synthesizer *Synthesizer, index VectorIndex, generator Generator) QueryService {
	return &queryServiceImpl{
		retriever:   retriever,
		synthesizer: synthesizer,
		index:       index,
		generator:   generator,
	}
}

// AnswerQuestion runs the pipeline for one request. A failed synthesis call
// degrades to the cleaned raw fields instead of failing the request; an
// embedding or index failure surfaces as the request's error without
// touching other in-flight requests.
func (q *queryServiceImpl) AnswerQuestion(ctx context.Context, question, country string) (*models.SynthesizedAnswer, error) {
	log.Printf("SERVICE: Answering question: '%s' (country: '%s')", question, country)

	candidates, err := q.retriever.Retrieve(ctx, question, country, DefaultTopK)
	if err != nil {
		return nil, err
	}

	result, err := q.synthesizer.Synthesize(ctx, question, candidates)
	if err != nil {
		if errors.Is(err, ErrSynthesisUnavailable) && result != nil {
			log.Printf("SERVICE WARN: synthesis unavailable, falling back to raw fields: %v", err)
			result.FinalText = concatRawFields(result.RawAnswer, result.RawComment)
			return result, nil
		}
		return nil, err
	}
	return result, nil
}

// concatRawFields joins the cleaned fields the way the pre-generative
// pipeline did.
func concatRawFields(answer, comment string) string {
	switch {
	case answer != "" && comment != "":
		return answer + ". " + comment
	case answer != "":
		return answer
	case comment != "":
		return comment
	default:
		return AnswerUnavailableMessage
	}
}

// Status reports the health probes for the serving process.
func (q *queryServiceImpl) Status(ctx context.Context) (dbLoaded, llmReady bool) {
	count, err := q.index.Count(ctx)
	if err != nil {
		log.Printf("SERVICE WARN: health count failed: %v", err)
		return false, q.generator != nil
	}
	return count > 0, q.generator != nil
}
