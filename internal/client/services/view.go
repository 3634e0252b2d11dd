package services

import (
	"sync"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
)

// RatingsView holds the last applied fetch result. Results from fetches
// older than the newest applied one are dropped.
type RatingsView struct {
	mu         sync.RWMutex
	generation uint64
	ratings    []models.Rating
	summary    models.Summary
	err        error
}

// Apply stores r unless a newer result was applied already. A failed result
// keeps the previous ratings and only records the error. It reports whether
// r was applied.
func (v *RatingsView) Apply(r FetchResult) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if r.Generation < v.generation {
		return false
	}
	v.generation = r.Generation
	v.err = r.Err
	if r.Err != nil {
		return true
	}
	v.ratings = r.Ratings
	v.summary = r.Summary
	return true
}

// Snapshot returns a copy of the current ratings, their summary and the
// error of the last applied fetch.
func (v *RatingsView) Snapshot() ([]models.Rating, models.Summary, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]models.Rating, len(v.ratings))
	copy(out, v.ratings)
	return out, v.summary, v.err
}

func (v *RatingsView) Generation() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.generation
}
