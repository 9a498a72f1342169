package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// TransformCache stores transformation results so that identical requests
// are not recomputed.
type TransformCache interface {
	// Get returns the entry stored under key.
	// Returns domain.ErrCacheMiss if there is none.
	Get(ctx context.Context, key string) (*domain.TransformEntry, error)

	// Put stores entry under key, replacing any previous value.
	Put(ctx context.Context, key string, entry *domain.TransformEntry) error

	// Delete removes the entry stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
