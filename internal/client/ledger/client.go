package ledger

import (
	"context"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
)

// Client is what the pipelines need from the contract gateway.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	// Query runs a read-only contract message. subjectID is sent as the
	// message data when non-nil.
	Query(ctx context.Context, method string, origin string, subjectID *uint32) ([]models.RatingRecord, error)
	// Send submits a signed message and returns its transaction hash.
	Send(ctx context.Context, req *SendRequest) (string, error)
	// ReadStorage returns the raw value under key, or common.ErrNotFound.
	ReadStorage(ctx context.Context, key []byte) ([]byte, error)
}
