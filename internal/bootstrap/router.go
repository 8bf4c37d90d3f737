package bootstrap

import (
	"github.com/DataContractHub/data-contract-backend/config"
	httpapi "github.com/DataContractHub/data-contract-backend/internal/api/http"
	"github.com/DataContractHub/data-contract-backend/internal/api/http/middleware"
	contracthttp "github.com/DataContractHub/data-contract-backend/internal/contract/http"
	suggesthttp "github.com/DataContractHub/data-contract-backend/internal/suggest/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Cfg         *config.Config
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	// Permissive CORS on every response; preflight OPTIONS is answered with 204.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"OPTIONS", "POST", "GET"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	contracthttp.New().Register(api)

	suggestGroup := api.Group("")
	suggestGroup.Use(middleware.RateLimit(dep.Cfg.Suggest.RPS, dep.Cfg.Suggest.Burst))
	suggesthttp.New(dep.Cfg.Gemini.APIKey, dep.Cfg.Gemini.Model).Register(suggestGroup)

	return r
}
