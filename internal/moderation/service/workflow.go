package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	catalogdomain "github.com/gabonshop/gabonshop-backend/internal/catalog/domain"
	identitydomain "github.com/gabonshop/gabonshop-backend/internal/identity/domain"
	"github.com/gabonshop/gabonshop-backend/internal/moderation/domain"
)

type LogRepository interface {
	Add(ctx context.Context, e domain.LogEntry) (string, error)
	List(ctx context.Context) ([]domain.LogEntry, error)
}

// Catalog is the part of the catalog store moderation acts on.
type Catalog interface {
	Get(id string) (catalogdomain.Product, error)
	Delete(ctx context.Context, id string) error
	Len() int
}

// Users is the users collection.
type Users interface {
	Get(ctx context.Context, uid string) (*identitydomain.Profile, error)
	List(ctx context.Context) ([]identitydomain.Profile, error)
	Delete(ctx context.Context, uid string) error
}

// Workflow runs the administrator actions. Every deletion is a two-step saga:
// the log entry is written first and the target is deleted only once that
// write succeeded. Nothing is rolled back when the delete fails.
type Workflow struct {
	logs    LogRepository
	catalog Catalog
	users   Users
	log     *zap.Logger
	now     func() time.Time
}

func NewWorkflow(logs LogRepository, catalog Catalog, users Users, log *zap.Logger) *Workflow {
	return &Workflow{
		logs:    logs,
		catalog: catalog,
		users:   users,
		log:     log,
		now:     time.Now,
	}
}

// DeleteProductWithReason logs then deletes p.
func (w *Workflow) DeleteProductWithReason(ctx context.Context, p catalogdomain.Product, reason, adminID string) error {
	if !domain.ValidReason(reason) {
		return domain.ErrEmptyReason
	}

	entry := domain.LogEntry{
		Type:          domain.TargetProduct,
		TargetID:      p.ID,
		TargetOwnerID: p.OwnerID,
		TargetTitle:   p.Title,
		Reason:        strings.TrimSpace(reason),
		AdminID:       adminID,
		CreatedAt:     w.now().UnixMilli(),
	}
	return w.run(ctx, entry, func(ctx context.Context) error {
		err := w.catalog.Delete(ctx, p.ID)
		if catalogdomain.IsReloadOnly(err) {
			// Deleted; only the cache reload lagged behind.
			w.log.Warn("catalog reload after moderation delete failed",
				zap.String("product_id", p.ID), zap.Error(err))
			return nil
		}
		return err
	})
}

// DeleteUserWithReason logs then deletes the profile document of userID.
// Administrators cannot be banned; that is checked before any write.
func (w *Workflow) DeleteUserWithReason(ctx context.Context, userID, reason, adminID string) error {
	if !domain.ValidReason(reason) {
		return domain.ErrEmptyReason
	}

	target, err := w.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return domain.ErrCannotBanAdmin
	}

	entry := domain.LogEntry{
		Type:          domain.TargetUser,
		TargetID:      userID,
		TargetOwnerID: userID,
		Reason:        strings.TrimSpace(reason),
		AdminID:       adminID,
		CreatedAt:     w.now().UnixMilli(),
	}
	return w.run(ctx, entry, func(ctx context.Context) error {
		return w.users.Delete(ctx, userID)
	})
}

func (w *Workflow) run(ctx context.Context, entry domain.LogEntry, deleteTarget func(context.Context) error) error {
	logID, err := w.logs.Add(ctx, entry)
	if err != nil {
		return &domain.StepError{Step: domain.StepLog, Err: err}
	}

	if err := deleteTarget(ctx); err != nil {
		w.log.Error("moderation target not deleted, log entry kept",
			zap.String("log_id", logID),
			zap.String("type", entry.Type),
			zap.String("target_id", entry.TargetID),
			zap.Error(err),
		)
		return &domain.StepError{Step: domain.StepDelete, LogID: logID, Err: err}
	}

	w.log.Info("moderation action applied",
		zap.String("log_id", logID),
		zap.String("type", entry.Type),
		zap.String("target_id", entry.TargetID),
		zap.String("admin_id", entry.AdminID),
	)
	return nil
}

// LoadUsers lists every profile for the admin dashboard.
func (w *Workflow) LoadUsers(ctx context.Context) ([]identitydomain.Profile, error) {
	return w.users.List(ctx)
}

// Logs lists the moderation log, newest first.
func (w *Workflow) Logs(ctx context.Context) ([]domain.LogEntry, error) {
	return w.logs.List(ctx)
}

// Stats are the admin dashboard counters.
type Stats struct {
	Products int `json:"products"`
	Users    int `json:"users"`
	Admins   int `json:"admins"`
}

func (w *Workflow) Stats(ctx context.Context) (Stats, error) {
	users, err := w.users.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load users: %w", err)
	}
	s := Stats{Products: w.catalog.Len(), Users: len(users)}
	for _, u := range users {
		if u.IsAdmin() {
			s.Admins++
		}
	}
	return s, nil
}

// Product looks a moderation target up in the catalog.
func (w *Workflow) Product(id string) (catalogdomain.Product, error) {
	return w.catalog.Get(id)
}
