package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bookli/scheduling-backend/internal/auth"
	"github.com/bookli/scheduling-backend/internal/blockedtime"
	btHttp "github.com/bookli/scheduling-backend/internal/blockedtime/http"
	"github.com/bookli/scheduling-backend/internal/catalog"
	"github.com/bookli/scheduling-backend/internal/serviceavail"
	saHttp "github.com/bookli/scheduling-backend/internal/serviceavail/http"
	"github.com/bookli/scheduling-backend/internal/slot"
	slotHttp "github.com/bookli/scheduling-backend/internal/slot/http"
	"github.com/bookli/scheduling-backend/internal/workinghours"
	whHttp "github.com/bookli/scheduling-backend/internal/workinghours/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	CatalogService      catalog.Catalog
	WorkingHoursService workinghours.Service
	BlockedTimeService  blockedtime.Service
	SettingsService     serviceavail.Service
	SlotService         slot.Service
	SlotGenerator       *slot.Generator
	Availability        slot.AvailabilityService

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = []string{cfg.ProdOrigins}
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// providerMiddleware: Further checks the authenticated provider exists and is active.
	providerMiddleware := RequireProvider(cfg.CatalogService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	whHandler := whHttp.NewHandler(cfg.WorkingHoursService)
	btHandler := btHttp.NewHandler(cfg.BlockedTimeService)
	saHandler := saHttp.NewHandler(cfg.SettingsService)
	slotHandler := slotHttp.NewHandler(cfg.SlotService, cfg.SlotGenerator, cfg.Availability)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		whHttp.RegisterRoutes(v1, whHandler, authMiddleware, providerMiddleware)
		btHttp.RegisterRoutes(v1, btHandler, authMiddleware, providerMiddleware)
		saHttp.RegisterRoutes(v1, saHandler, authMiddleware, providerMiddleware)
		slotHttp.RegisterRoutes(v1, slotHandler, authMiddleware, providerMiddleware)
	}

	return r
}
