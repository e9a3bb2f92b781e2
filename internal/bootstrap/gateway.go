package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gabonshop/gabonshop-backend/config"
	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	fsgateway "github.com/gabonshop/gabonshop-backend/internal/gateway/firestore"
	"github.com/gabonshop/gabonshop-backend/internal/gateway/memory"
	pggateway "github.com/gabonshop/gabonshop-backend/internal/gateway/postgres"
)

// Gateway is the selected backend. Close releases its connections.
type Gateway struct {
	Backend   string
	Documents gateway.Documents
	Auth      gateway.Auth
	Close     func() error
}

// OpenGateway connects the backend named by cfg.Gateway.Backend. Firestore
// and postgres deployments both authenticate through Firebase.
func OpenGateway(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Gateway, error) {
	switch cfg.Gateway.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory gateway, data is lost on restart")
		return &Gateway{
			Backend:   config.BackendMemory,
			Documents: memory.NewDocuments(),
			Auth:      memory.NewAuth(),
			Close:     func() error { return nil },
		}, nil

	case config.BackendFirestore, config.BackendPostgres:
		app, err := fsgateway.NewApp(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		authClient, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Auth client: %w", err)
		}
		toolkit, err := fsgateway.NewToolkit(ctx, cfg.Firebase.APIKey)
		if err != nil {
			return nil, err
		}
		limiter := rate.NewLimiter(rate.Limit(cfg.Firebase.AuthRatePerSec), cfg.Firebase.AuthRateBurst)
		auth := fsgateway.NewAuth(authClient, toolkit, limiter)

		if cfg.Gateway.Backend == config.BackendPostgres {
			db, err := pggateway.NewConnection(ctx, &cfg.Database)
			if err != nil {
				return nil, err
			}
			if err := pggateway.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
			log.Info("gateway ready", zap.String("backend", config.BackendPostgres))
			return &Gateway{
				Backend:   config.BackendPostgres,
				Documents: pggateway.NewDocuments(db),
				Auth:      auth,
				Close:     db.Close,
			}, nil
		}

		fs, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Firestore client: %w", err)
		}
		log.Info("gateway ready", zap.String("backend", config.BackendFirestore))
		return &Gateway{
			Backend:   config.BackendFirestore,
			Documents: fsgateway.NewDocuments(fs),
			Auth:      auth,
			Close:     fs.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown gateway backend %q", cfg.Gateway.Backend)
}
