package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
)

func TestRefresher(t *testing.T) {
	store, docs := setupStore(t)

	t.Run("rejects a bad schedule", func(t *testing.T) {
		r := NewRefresher(store, "every now and then", zap.NewNop())
		assert.Error(t, r.Start())
		r.Stop()
	})

	t.Run("run reloads the catalog", func(t *testing.T) {
		_, err := docs.Add(context.Background(), gateway.CollectionProducts, map[string]interface{}{"title": "A"})
		require.NoError(t, err)

		r := NewRefresher(store, "@every 1h", zap.NewNop())
		require.NoError(t, r.Start())
		defer r.Stop()

		r.Run()
		assert.Equal(t, 1, store.Len())
	})
}
