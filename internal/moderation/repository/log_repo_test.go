package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/gateway/memory"
	"github.com/gabonshop/gabonshop-backend/internal/moderation/domain"
)

func TestLogRepository(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewDocuments()
	repo := NewLogRepository(docs)

	_, err := repo.Add(ctx, domain.LogEntry{Type: domain.TargetUser, TargetID: "u1", TargetOwnerID: "u1", Reason: "fraude", AdminID: "a1", CreatedAt: 1})
	require.NoError(t, err)
	id, err := repo.Add(ctx, domain.LogEntry{Type: domain.TargetProduct, TargetID: "p1", TargetTitle: "Chaise", Reason: "spam", AdminID: "a1", CreatedAt: 2})
	require.NoError(t, err)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, "spam", entries[0].Reason)

	for _, w := range docs.Writes() {
		assert.Equal(t, memory.OpAdd, w.Op, "the log is append-only")
		assert.Equal(t, gateway.CollectionModerationLogs, w.Collection)
	}
}
