package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/identity/domain"
)

// ProfileRepository reads and writes the users collection.
type ProfileRepository struct {
	docs gateway.Documents
}

func NewProfileRepository(docs gateway.Documents) *ProfileRepository {
	return &ProfileRepository{docs: docs}
}

// Get returns domain.ErrUserNotFound when uid has no profile document.
func (r *ProfileRepository) Get(ctx context.Context, uid string) (*domain.Profile, error) {
	doc, err := r.docs.Get(ctx, gateway.CollectionUsers, uid)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}
	p := domain.ProfileFromData(doc.ID, doc.Data)
	return &p, nil
}

// Create writes the profile under its account uid.
func (r *ProfileRepository) Create(ctx context.Context, p domain.Profile) error {
	if err := r.docs.Set(ctx, gateway.CollectionUsers, p.ID, p.Fields()); err != nil {
		return fmt.Errorf("create profile %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	docs, err := r.docs.List(ctx, gateway.CollectionUsers, gateway.Query{})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make([]domain.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.ProfileFromData(d.ID, d.Data))
	}
	return out, nil
}

// Delete removes the profile document only; the auth account is left alone.
func (r *ProfileRepository) Delete(ctx context.Context, uid string) error {
	if err := r.docs.Delete(ctx, gateway.CollectionUsers, uid); err != nil {
		return fmt.Errorf("delete profile %s: %w", uid, err)
	}
	return nil
}
