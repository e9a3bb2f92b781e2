package repository

import (
	"context"
	"fmt"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/moderation/domain"
)

// LogRepository appends to the moderationLogs collection. It never updates
// or deletes entries.
type LogRepository struct {
	docs gateway.Documents
}

func NewLogRepository(docs gateway.Documents) *LogRepository {
	return &LogRepository{docs: docs}
}

func (r *LogRepository) Add(ctx context.Context, e domain.LogEntry) (string, error) {
	id, err := r.docs.Add(ctx, gateway.CollectionModerationLogs, e.Fields())
	if err != nil {
		return "", fmt.Errorf("add moderation log: %w", err)
	}
	return id, nil
}

// List returns every entry, newest first.
func (r *LogRepository) List(ctx context.Context) ([]domain.LogEntry, error) {
	docs, err := r.docs.List(ctx, gateway.CollectionModerationLogs, gateway.Query{OrderBy: "createdAt", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list moderation logs: %w", err)
	}
	out := make([]domain.LogEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.LogEntryFromData(d.ID, d.Data))
	}
	return out, nil
}
