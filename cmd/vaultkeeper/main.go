package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"vaultrewards/native/vaultrewards"
	"vaultrewards/observability"
	"vaultrewards/observability/logging"
	telemetry "vaultrewards/observability/otel"
	"vaultrewards/services/vaultkeeper"
	"vaultrewards/services/vaultkeeper/config"
	"vaultrewards/state/bank"
	"vaultrewards/state/rewardstore"
	"vaultrewards/storage"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "services/vaultkeeper/config.yaml", "path to vaultkeeper config")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("VAULTREWARDS_ENV"))
	logging.Setup("vaultkeeper", env)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.SetupWithOptions("vaultkeeper", env, logging.Options{
		Level:      logLevel(env),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	otlpEndpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	insecure := true
	if value := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			insecure = parsed
		}
	}
	shutdownTelemetry, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: "vaultkeeper",
		Environment: env,
		Endpoint:    otlpEndpoint,
		Insecure:    insecure,
		Headers:     telemetry.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Metrics:     otlpEndpoint != "",
		Traces:      otlpEndpoint != "",
	})
	if err != nil {
		log.Fatalf("init telemetry: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	rewardsCfg, err := vaultrewards.LoadConfig(cfg.RewardsConfig)
	if err != nil {
		log.Fatalf("load rewards config: %v", err)
	}
	engine, err := vaultrewards.NewEngineFromConfig(rewardsCfg)
	if err != nil {
		log.Fatalf("build reward engine: %v", err)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		log.Fatalf("open data dir %s: %v", cfg.DataDir, err)
	}
	defer db.Close()

	store := rewardstore.New(db)
	if err := store.Audit(); err != nil {
		log.Fatalf("audit reward store: %v", err)
	}
	engine.SetState(store)
	ledger := bank.NewLedger(db)
	ledger.SetMintCap(rewardsCfg.MintCap)
	engine.SetLedger(ledger)
	engine.SetLogger(logger)
	engine.SetEmitter(observability.LoggingEmitter{Logger: logger})

	clock := clockwork.NewRealClock()
	heights := vaultkeeper.NewBlockClock(clock, cfg.Chain.GenesisTime, cfg.Chain.BlockInterval)
	keeper, err := vaultkeeper.NewKeeper(vaultkeeper.KeeperConfig{
		Logger:          logger,
		Clock:           clock,
		Heights:         heights,
		Engine:          engine,
		RefreshInterval: cfg.RefreshInterval,
	})
	if err != nil {
		log.Fatalf("build keeper: %v", err)
	}
	server, err := vaultkeeper.NewServer(vaultkeeper.ServerConfig{
		Logger:       logger,
		Rewards:      engine,
		Participants: store,
		Heights:      heights,
		Keeper:       keeper,
		RateLimit: vaultkeeper.RateLimit{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
		},
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keeper.Start(ctx)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("vaultkeeper listening", "addr", cfg.ListenAddress)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("forcing server stop", "error", err)
			_ = httpServer.Close()
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve http: %v", err)
		}
	}
}

func logLevel(env string) slog.Level {
	if strings.EqualFold(env, "dev") {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
