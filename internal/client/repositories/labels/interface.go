// Package labels persists the subject id to display label table.
package labels

import "context"

type Repository interface {
	// Get returns the label of subjectID and whether one is stored.
	Get(ctx context.Context, subjectID uint32) (string, bool, error)
	// InsertIfAbsent stores label unless subjectID already has one and
	// returns the label that is stored afterwards.
	InsertIfAbsent(ctx context.Context, subjectID uint32, label string) (string, error)
	List(ctx context.Context) (map[uint32]string, error)
	Clear(ctx context.Context) error
}
