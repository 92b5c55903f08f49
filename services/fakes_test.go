package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"insuranceqa/models"
)

const fakeDim = 32

// fakeEmbedder produces a deterministic bag-of-words vector so related
// questions land near each other without a live embedding service.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	vec := make([]float32, fakeDim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, "?.,!")
		h := 0
		for _, r := range token {
			h = h*31 + int(r)
		}
		if h < 0 {
			h = -h
		}
		vec[h%fakeDim]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	return vec, nil
}

// failingEmbedder always errors.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, ErrEmbeddingService
}

// memoryIndex is a brute-force in-memory VectorIndex. Distance is cosine
// distance over the fake embedder's normalized vectors.
type memoryIndex struct {
	mu      sync.RWMutex
	vectors [][]float32
	records []models.Record
}

func newMemoryIndex() *memoryIndex { return &memoryIndex{} }

func (m *memoryIndex) Insert(_ context.Context, embedding []float32, rec models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors = append(m.vectors, embedding)
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryIndex) Search(_ context.Context, embedding []float32, k int, filter *SearchFilter) ([]models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []models.Candidate
	for i, rec := range m.records {
		if filter != nil && rec.Country != filter.Country {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Record: rec,
			Score:  1 - dot(m.vectors[i], embedding),
		})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score < candidates[j].Score })
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

func (m *memoryIndex) AllRecords(context.Context) ([]models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Record(nil), m.records...), nil
}

func (m *memoryIndex) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// fakeGenerator returns deterministic text and counts its calls.
type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	fail  bool
	reply func(prompt string) string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ int32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail {
		return "", errors.New("generator offline")
	}
	if f.reply != nil {
		return f.reply(prompt), nil
	}
	return "generated: " + prompt, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
