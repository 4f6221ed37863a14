package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JRackFatWalrus/clashlings/internal/catalog"
	"github.com/JRackFatWalrus/clashlings/internal/config"
	"github.com/JRackFatWalrus/clashlings/internal/match"
	"github.com/JRackFatWalrus/clashlings/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting clashlings server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}
	logger.Info("card catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("cards", cat.Len()),
	)

	manager := match.NewManager(cat, logger)
	wsServer := server.New(cfg, manager, logger)

	logger.Info("clashlings server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.String("player_deck", cfg.Game.PlayerDeck),
		zap.Duration("think_delay", cfg.Opponent.ThinkDelay),
		zap.Duration("block_delay", cfg.Opponent.BlockDelay),
	)

	if err := wsServer.ListenAndServe(ctx); err != nil {
		logger.Error("websocket server error", zap.Error(err))
	}

	logger.Info("clashlings server stopped",
		zap.Int("active_matches", manager.GetActiveMatchCount()),
	)
}

// loadCatalog returns the built-in cards or the ones stored in Postgres.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.Source != config.CatalogPostgres {
		return catalog.Builtin(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := catalog.NewPostgresStore(connectCtx, cfg.Database.URL, logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Load(connectCtx)
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
