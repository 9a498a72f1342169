package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTransformCacheContract runs a suite of tests to verify that a
// TransformCache implementation adheres to the interface contract.
func RunTransformCacheContract(t *testing.T, cache TransformCache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	entry := &domain.TransformEntry{
		Kind:     "binary",
		Document: "blank: '0'\nstart state: a\ntable:\n  a:\n",
		Source:   "# ␣ = 00\n",
		Codes:    map[string]string{" ": "00", "a": "01"},
		Width:    2,
	}

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, entry), "Put should not return error")

		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, entry, got)
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		got.Codes["a"] = "11"

		again, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "01", again.Codes["a"])
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Overwrite", func(t *testing.T) {
		other := *entry
		other.Source = "replaced"
		require.NoError(t, cache.Put(ctx, key, &other))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "replaced", got.Source)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Delete(ctx, key), "Delete should not return error")

		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "Deleting twice is not an error")
	})
}
