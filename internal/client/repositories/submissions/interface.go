// Package submissions journals ratings this client has successfully
// submitted to the ledger.
package submissions

import (
	"context"
	"time"
)

type Submission struct {
	ID            string
	Hash          string
	SubjectID     uint32
	Article       uint8
	Shipping      uint8
	Communication uint8
	Comment       string
	SubmittedAt   time.Time
}

type Repository interface {
	Add(ctx context.Context, s *Submission) error
	// List returns at most limit submissions, newest first. A limit of
	// zero or less returns all of them.
	List(ctx context.Context, limit int) ([]Submission, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
