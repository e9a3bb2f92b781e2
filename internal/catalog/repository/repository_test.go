package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabonshop/gabonshop-backend/internal/catalog/domain"
	"github.com/gabonshop/gabonshop-backend/internal/gateway/memory"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	require.NoError(t, client.Ping(context.Background()).Err())
	return client, mr
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewDocuments()
	repo := NewProductRepository(docs)

	oldID, err := repo.Create(ctx, map[string]interface{}{"title": "old", "createdAt": int64(1)})
	require.NoError(t, err)
	newID, err := repo.Create(ctx, map[string]interface{}{"title": "new", "imageUrl": "d.jpg", "createdAt": int64(2)})
	require.NoError(t, err)

	list, err := repo.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newID, list[0].ID)
	assert.Equal(t, []string{"d.jpg"}, list[0].Images)
	assert.Equal(t, oldID, list[1].ID)

	assert.ErrorIs(t, repo.Update(ctx, "missing", map[string]interface{}{"title": "x"}), domain.ErrProductNotFound)

	require.NoError(t, repo.Delete(ctx, oldID))
	list, err = repo.ListRecent(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSnapshotCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	cache := NewSnapshotCache(client, time.Minute)

	t.Run("empty cache", func(t *testing.T) {
		_, ok, err := cache.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round trip with ttl", func(t *testing.T) {
		p := 5000.0
		require.NoError(t, cache.Save(ctx, []domain.Product{{ID: "p1", Title: "Chaise", Price: &p, Images: []string{"x.jpg"}}}))

		got, ok, err := cache.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, got, 1)
		assert.Equal(t, "Chaise", got[0].Title)
		assert.Equal(t, 5000.0, *got[0].Price)

		mr.FastForward(2 * time.Minute)
		_, ok, err = cache.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInvalidation(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	local := NewInvalidation(client, "instance-a")
	peer := NewInvalidation(client, "instance-b")

	received := make(chan Event, 4)
	require.NoError(t, local.Listen(ctx, func(ev Event) { received <- ev }))

	require.NoError(t, local.Publish(ctx, EventCreated, "own"))
	require.NoError(t, peer.Publish(ctx, EventDeleted, "p9"))

	select {
	case ev := <-received:
		assert.Equal(t, EventDeleted, ev.Kind)
		assert.Equal(t, "p9", ev.ProductID)
		assert.Equal(t, "instance-b", ev.Origin)
	case <-time.After(2 * time.Second):
		t.Fatal("peer event not delivered")
	}

	select {
	case ev := <-received:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
