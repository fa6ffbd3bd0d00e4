package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bookli/scheduling-backend/internal/api"
	"github.com/bookli/scheduling-backend/internal/auth"
	"github.com/bookli/scheduling-backend/internal/blockedtime"
	"github.com/bookli/scheduling-backend/internal/catalog"
	"github.com/bookli/scheduling-backend/internal/notify"
	"github.com/bookli/scheduling-backend/internal/pkg/cache"
	"github.com/bookli/scheduling-backend/internal/propagation"
	"github.com/bookli/scheduling-backend/internal/serviceavail"
	"github.com/bookli/scheduling-backend/internal/slot"
	"github.com/bookli/scheduling-backend/internal/workinghours"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Cache        *cache.Cache
	EventChannel string
	JWTSecret    string
	JWTTTL       time.Duration
	Logger       *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
//
// Wiring order matters: the propagator implements the Propagator interfaces
// of the mutation services, so repositories and the generator come first, the
// propagator second, and the services last.
func NewContainer(cfg Config) *Container {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Event sink: Redis pub/sub when available, structured log otherwise.
	var publisher notify.Publisher = notify.NewLogPublisher(cfg.Logger)
	if rdb := cfg.Cache.Client(); rdb != nil {
		publisher = notify.NewRedisPublisher(rdb, cfg.EventChannel)
	}

	// Catalog Module (read-only view of providers and services)
	catalogRepo := catalog.NewPgxRepository(cfg.DBPool)
	catalogService := catalog.NewCatalog(catalogRepo)

	// Repositories
	whRepo := workinghours.NewPgxRepository(cfg.DBPool)
	btRepo := blockedtime.NewPgxRepository(cfg.DBPool)
	saRepo := serviceavail.NewPgxRepository(cfg.DBPool)
	slotRepo := slot.NewPgxRepository(cfg.DBPool)

	// The generator and the blocked-time read path are needed by the
	// propagator before the full services exist, so build thin views first.
	btReader := blockedtime.NewService(btRepo, propagation.Noop())
	whReader := workinghours.NewService(whRepo, propagation.Noop())
	saReader := serviceavail.NewService(saRepo, catalogService, propagation.Noop())

	generator := slot.NewGenerator(whReader, btReader, saReader, slotRepo)

	propagator := propagation.New(slotRepo, generator, whReader, btReader, cfg.Cache, publisher, cfg.Logger)

	// Mutation services, wired with the real propagator.
	whService := workinghours.NewService(whRepo, propagator)
	btService := blockedtime.NewService(btRepo, propagator)
	saService := serviceavail.NewService(saRepo, catalogService, propagator)
	slotService := slot.NewService(slotRepo, cfg.Cache)
	availability := slot.NewAvailabilityService(whService, slotRepo, cfg.Cache)

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		CatalogService:      catalogService,
		WorkingHoursService: whService,
		BlockedTimeService:  btService,
		SettingsService:     saService,
		SlotService:         slotService,
		SlotGenerator:       generator,
		Availability:        availability,
		JWTManager:          jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
