package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/SolTwizzy/chainpulse/internal/core/config"
	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/engine"
	"github.com/SolTwizzy/chainpulse/internal/health"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain/evm"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain/solana"
	"github.com/SolTwizzy/chainpulse/internal/monitor/gas"
	"github.com/SolTwizzy/chainpulse/internal/price"
	"github.com/SolTwizzy/chainpulse/internal/registry"
)

const rpcTimeout = 15 * time.Second

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration first (before setting up logger)
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Simplified logging logic (debug < info)
	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})))
	slog.Info("Logger initialized", "level", slogLevel.String())

	// Build chain clients from config
	clients, err := buildClients(cfg)
	if err != nil {
		slog.Error("Failed to initialize chain clients", "error", err)
		os.Exit(1)
	}
	if len(clients) == 0 {
		slog.Error("No chains configured")
		os.Exit(1)
	}

	prices := price.NewCache(
		price.NewHTTPProvider(cfg.Price.BaseURL, cfg.Price.APIKey),
		cfg.Price.TTL,
	)

	eng := engine.New(clients, prices, cfg.Alerts.Channels)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start health/metrics server
	healthSrv := health.NewServer(health.NewMonitor(clients), cfg.Server.Port)
	go func() {
		slog.Info("Health server listening", "port", cfg.Server.Port)
		if err := healthSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Health server stopped", "error", err)
		}
	}()

	// Start configured gas monitoring
	if cfg.Alerts.Gas.Enabled {
		startGasMonitor(ctx, eng, cfg)
	}

	// Handle OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	eng.CancelAll()
	cancel()
	if err := healthSrv.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("chainpulse stopped gracefully")
}

func buildClients(cfg *config.AppConfig) (map[domain.Chain]chain.Client, error) {
	tokens := registry.NewTokenRegistry()
	clients := make(map[domain.Chain]chain.Client, len(cfg.Chains))
	for _, cc := range cfg.Chains {
		if cc.Name.IsEVM() {
			clients[cc.Name] = evm.NewClient(evm.Config{
				Chain:        cc.Name,
				RPCURL:       cc.RPCURL,
				WSURL:        cc.WSURL,
				PollInterval: cc.PollInterval,
				Timeout:      rpcTimeout,
			})
			continue
		}
		clients[cc.Name] = solana.NewClient(solana.Config{
			RPCURL:       cc.RPCURL,
			PollInterval: cc.PollInterval,
			Timeout:      rpcTimeout,
			SymbolResolver: func(mint string) string {
				if tok, ok := tokens.Lookup(domain.ChainSolana, mint); ok {
					return tok.Symbol
				}
				return "SPL"
			},
		})
	}
	return clients, nil
}

func startGasMonitor(ctx context.Context, eng *engine.Engine, cfg *config.AppConfig) {
	gasChains := cfg.Alerts.Gas.Chains
	if len(gasChains) == 0 {
		for _, cc := range cfg.Chains {
			if cc.Name.IsEVM() {
				gasChains = append(gasChains, cc.Name)
			}
		}
	}

	id := eng.MonitorGasPrices(ctx, gas.Thresholds{
		LowGwei:  cfg.Alerts.Gas.LowGwei,
		HighGwei: cfg.Alerts.Gas.HighGwei,
	}, gasChains, cfg.Alerts.Gas.Interval, func(a domain.GasAlert) {
		severity := domain.SeverityInfo
		title := "Gas price low"
		if a.Type == domain.GasAlertHigh {
			severity = domain.SeverityWarning
			title = "Gas price high"
		}
		eng.SendAlert(ctx, domain.Alert{
			Title: title,
			Message: fmt.Sprintf("%s gas at %.1f gwei (threshold %.1f)",
				a.Quote.Chain, a.Quote.TotalGwei, a.Threshold),
			Severity: severity,
			Data: map[string]any{
				"chain":      string(a.Quote.Chain),
				"total_gwei": fmt.Sprintf("%.2f", a.Quote.TotalGwei),
				"threshold":  fmt.Sprintf("%.2f", a.Threshold),
			},
		})
	})
	slog.Info("Gas monitoring started", "subscription", id, "chains", len(gasChains))
}
