package router

import (
	"database/sql"
	"net/http"
	"os"
	"sync"

	fundsmem "pet-market/internal/adapters/funds/memory"
	"pet-market/internal/adapters/funds/treasury"
	mem "pet-market/internal/adapters/storage/memory"
	pg "pet-market/internal/adapters/storage/postgres"
	"pet-market/internal/domain/activity"
	"pet-market/internal/domain/market"
	"pet-market/internal/domain/tokens"
	"pet-market/internal/middleware"
	"pet-market/internal/platform/logger"
	"pet-market/internal/ports/auth"
	"pet-market/internal/ports/funds"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, env DB_DSN o in-memory.
	DB *sql.DB

	// Opcional: capability de fondos. Si no viene, usa treasury por env
	// (TREASURY_BASE_URL) o el ledger en memoria (modo dev).
	Funds funds.Transferor

	// Opcional: si no viene, se crea desde env.
	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		tokensRepo   tokens.Repository
		listingsRepo market.Repository
		activityRepo activity.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres open failed, falling back to memory", map[string]any{"err": err.Error()})
			}
		}
	}

	if db != nil {
		tokensRepo = pg.NewTokensRepo(db)
		listingsRepo = pg.NewListingsRepo(db)
		activityRepo = pg.NewActivityRepo(db)
		log.Info("storage: postgres", nil)
	} else {
		tokensRepo = mem.NewTokensRepo()
		listingsRepo = mem.NewListingsRepo()
		activityRepo = mem.NewActivityRepo()
		log.Info("storage: memory", nil)
	}

	ft := opts.Funds
	if ft == nil {
		if baseURL := os.Getenv("TREASURY_BASE_URL"); baseURL != "" {
			client, err := treasury.NewClient(treasury.Config{
				BaseURL: baseURL,
				APIKey:  os.Getenv("TREASURY_API_KEY"),
			})
			if err == nil {
				ft = treasury.NewTransferor(client)
				log.Info("funds: treasury", map[string]any{"base_url": baseURL})
			} else {
				log.Warn("treasury config invalid, falling back to memory ledger", map[string]any{"err": err.Error()})
			}
		}
	}
	if ft == nil {
		ft = fundsmem.NewLedger()
		log.Info("funds: memory ledger", nil)
	}

	// Lock único del motor: ledger + listings mutan como una sola unidad
	// (ver tokens.Service / market.Service).
	var mu sync.RWMutex

	activitySvc := activity.NewService(activityRepo)
	tokensSvc := tokens.NewService(tokensRepo, listingsRepo, activitySvc, &mu)
	marketSvc := market.NewService(listingsRepo, tokensRepo, ft, activitySvc, &mu)

	tokens.RegisterRoutes(r, tokensSvc)
	market.RegisterRoutes(r, marketSvc)
	activity.RegisterRoutes(r, activitySvc, tokensSvc)

	return r
}
