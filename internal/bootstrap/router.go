package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpapi "github.com/gabonshop/gabonshop-backend/internal/api/http"
	"github.com/gabonshop/gabonshop-backend/internal/api/http/middleware"
	cataloghttp "github.com/gabonshop/gabonshop-backend/internal/catalog/http"
	catalogservice "github.com/gabonshop/gabonshop-backend/internal/catalog/service"
	"github.com/gabonshop/gabonshop-backend/internal/identity"
	identityhttp "github.com/gabonshop/gabonshop-backend/internal/identity/http"
	identityservice "github.com/gabonshop/gabonshop-backend/internal/identity/service"
	moderationhttp "github.com/gabonshop/gabonshop-backend/internal/moderation/http"
	moderationservice "github.com/gabonshop/gabonshop-backend/internal/moderation/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Backend        string
	AllowedOrigins []string
	Logger         *zap.Logger
	Validate       *validator.Validate
	Redis          *redis.Client

	Catalog    *catalogservice.Store
	Accounts   *identityservice.Accounts
	Moderation *moderationservice.Workflow
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	corsCfg.ExposeHeaders = []string{middleware.HeaderRequestID}
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend, dep.Catalog, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(identity.Authenticate(dep.Accounts, dep.Logger))

	identityhttp.New(dep.Accounts, dep.Logger).Register(api.Group("/auth"))
	cataloghttp.New(dep.Catalog, dep.Validate, dep.Logger).Register(api)
	moderationhttp.New(dep.Moderation, dep.Logger).Register(api)

	return r
}
