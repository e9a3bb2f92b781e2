package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabonshop/gabonshop-backend/internal/catalog/domain"
	"github.com/gabonshop/gabonshop-backend/internal/gateway"
)

// ProductRepository maps the products collection to domain products.
type ProductRepository struct {
	docs gateway.Documents
}

func NewProductRepository(docs gateway.Documents) *ProductRepository {
	return &ProductRepository{docs: docs}
}

// ListRecent fetches every product, newest first. There is no pagination.
func (r *ProductRepository) ListRecent(ctx context.Context) ([]domain.Product, error) {
	docs, err := r.docs.List(ctx, gateway.CollectionProducts, gateway.Query{OrderBy: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.ProductFromData(d.ID, d.Data))
	}
	return out, nil
}

func (r *ProductRepository) Create(ctx context.Context, data map[string]interface{}) (string, error) {
	return r.docs.Add(ctx, gateway.CollectionProducts, data)
}

func (r *ProductRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	err := r.docs.Update(ctx, gateway.CollectionProducts, id, patch)
	if errors.Is(err, gateway.ErrNotFound) {
		return domain.ErrProductNotFound
	}
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.docs.Delete(ctx, gateway.CollectionProducts, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}
