package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
)

// Documents implements gateway.Documents on Cloud Firestore.
type Documents struct {
	client *firestore.Client
}

func NewDocuments(client *firestore.Client) *Documents {
	return &Documents{client: client}
}

func (d *Documents) List(ctx context.Context, collection string, q gateway.Query) ([]gateway.Document, error) {
	query := d.client.Collection(collection).Query
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	out := make([]gateway.Document, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, gateway.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func (d *Documents) Get(ctx context.Context, collection, id string) (*gateway.Document, error) {
	snap, err := d.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, gateway.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &gateway.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (d *Documents) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref, _, err := d.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (d *Documents) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if _, err := d.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (d *Documents) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: patch[k]})
	}

	if _, err := d.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return gateway.ErrNotFound
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (d *Documents) Delete(ctx context.Context, collection, id string) error {
	if _, err := d.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func isNotFound(err error) bool {
	if errors.Is(err, gateway.ErrNotFound) {
		return true
	}
	return status.Code(err) == codes.NotFound
}
