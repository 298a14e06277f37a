package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jspittman/stockledger/internal/accounts"
	"github.com/jspittman/stockledger/internal/config"
	"github.com/jspittman/stockledger/internal/db"
	"github.com/jspittman/stockledger/internal/handlers"
	"github.com/jspittman/stockledger/internal/ledger"
	"github.com/jspittman/stockledger/internal/logger"
	"github.com/jspittman/stockledger/internal/quotes"
)

func main() {
	// Load .env if present; real environment variables win otherwise
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	var (
		store    ledger.Store
		provider quotes.Provider
		sim      *quotes.Simulator
	)

	if cfg.DemoMode || cfg.QuoteAPIURL == "" {
		// Demo mode: in-memory ledger, random-walk prices.
		sim = quotes.NewSimulator()
		provider = sim
		if cfg.DemoMode {
			store = ledger.NewMemStore()
			log.Info().Msg("demo mode: in-memory store and simulated quotes")
		}
	} else {
		provider = quotes.NewHTTPProvider(cfg.QuoteAPIURL, cfg.QuoteAPIKey, log)
	}

	if store == nil {
		database, err := db.Open(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer database.Close()

		if err := db.EnsureSchema(database); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize schema")
		}

		store = ledger.NewPostgresStore(database)
		log.Info().Str("db", cfg.DBName).Msg("database connected")
	}

	engine := ledger.NewEngine(store, provider, log)
	aggregator := ledger.NewAggregator(store, provider)
	manager := accounts.NewManager(store, cfg.StartingCash, log)

	processor := ledger.NewProcessor(engine, cfg.TradeWorkers, log)
	processor.Start()
	defer processor.Stop()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	h := &handlers.Handler{
		Processor:  processor,
		Aggregator: aggregator,
		Accounts:   manager,
		Store:      store,
		Quotes:     provider,
		Simulator:  sim,
		Log:        log,
	}
	h.Routes(router)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
