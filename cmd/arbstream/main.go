// Package main is the entry point for the ArbStream sure-bet scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/arbstream/arbstream/business/arbitrage"
	arbitrageApp "github.com/arbstream/arbstream/business/arbitrage/app"
	arbitrageDI "github.com/arbstream/arbstream/business/arbitrage/di"
	"github.com/arbstream/arbstream/business/gateway"
	gatewayDI "github.com/arbstream/arbstream/business/gateway/di"
	"github.com/arbstream/arbstream/business/odds"
	oddsDI "github.com/arbstream/arbstream/business/odds/di"
	"github.com/arbstream/arbstream/internal/apm"
	"github.com/arbstream/arbstream/internal/config"
	"github.com/arbstream/arbstream/internal/health"
	"github.com/arbstream/arbstream/internal/logger"
	"github.com/arbstream/arbstream/internal/metrics"
	"github.com/arbstream/arbstream/internal/monolith"
	"github.com/arbstream/arbstream/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	once := flag.Bool("once", false, "Run a single scan and exit (implies -cli)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("arbstream %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging and one-shot runs
	tuiMode := !*cliMode && !*once

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	// Run application
	if err := run(ctx, *configPath, tuiMode, *once); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode, once bool) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules know which reporter to wire
	cfg.Scanner.TUIMode = tuiMode

	// Setup logger (only log to stderr in CLI mode)
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting ArbStream",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		// Initialize tracing with Zipkin (local dev friendly)
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		// Initialize metrics with Prometheus
		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		// Start Prometheus metrics server in background
		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server on port 8081
	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&odds.Module{},      // Must be first - provides the sources
		&gateway.Module{},   // Provides the websocket hub for the reporter chain
		&arbitrage.Module{}, // Depends on odds and the gateway hub
	}

	// Register all module services
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// Readiness degrades when scans stop landing
	healthServer.RegisterCheck("last_scan", func(checkCtx context.Context) (bool, string) {
		result, err := arbitrageDI.GetScanner(mono.Services()).LastResult()
		if err != nil {
			return true, "no scan completed yet"
		}
		age := time.Since(result.FinishedAt).Round(time.Second)
		if age > 5*cfg.Scanner.Interval {
			return false, fmt.Sprintf("last scan %s ago", age)
		}
		return true, fmt.Sprintf("last scan %s ago", age)
	})

	stopGateway := func() {
		if !cfg.Gateway.Enabled {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := gatewayDI.GetServer(mono.Services()).Stop(shutdownCtx); err != nil {
			log.Warn(shutdownCtx, "gateway shutdown failed", "error", err)
		}
	}

	if tuiMode {
		// TUI mode: Start modules in background so TUI shows immediately
		startFunc := func() error {
			return mono.StartModules(ctx, modules...)
		}
		stopFunc := func() {
			_ = arbitrageDI.GetReporter(mono.Services()).Stop()
			stopGateway()
		}
		return runTUI(ctx, mono, cfg, startFunc, stopFunc)
	}

	// CLI mode: Start modules synchronously
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	defer stopGateway()

	scanner := arbitrageDI.GetScanner(mono.Services())
	return runCLI(ctx, cfg, scanner, arbitrageDI.GetReporter(mono.Services()), log, once)
}

func runCLI(ctx context.Context, cfg *config.Config, scanner *arbitrageApp.Scanner, reporter arbitrageApp.Reporter, log *logger.Logger, once bool) error {
	log.Info(ctx, "all modules started, beginning scan loop",
		"interval", cfg.Scanner.Interval,
		"once", once,
	)

	if once {
		result, err := scanner.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		log.Info(ctx, "scan complete",
			"events", result.EventsScanned,
			"opportunities", len(result.Opportunities),
			"source_errors", result.SourceErrors,
		)
		return reporter.Stop()
	}

	scanner.RunContinuous(ctx, cfg.Scanner.Interval)

	log.Info(ctx, "shutting down")

	if err := reporter.Stop(); err != nil {
		log.Error(ctx, "error stopping reporter", "error", err)
	}

	return nil
}

func runTUI(ctx context.Context, mono monolith.Monolith, cfg *config.Config, startFunc func() error, stopFunc func()) error {
	// Channel to receive the start signal from the welcome screen
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// "s" key: trigger an immediate scan
	ui.OnScanNow = func() {
		scanner := arbitrageDI.GetScanner(mono.Services())
		if _, err := scanner.Scan(context.Background()); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
		}
	}

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	// Run scanner logic in background (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		// Wait for the welcome screen to complete
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		ui.Send(ui.StartupMsg{Step: "config", Status: "connected"})
		ui.Send(ui.StartupMsg{Step: "sources", Status: "connecting"})

		// Start modules (source and gateway setup happens here)
		if err := startFunc(); err != nil {
			ui.Send(ui.StartupMsg{Step: "sources", Status: "failed"})
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}
		ui.Send(ui.StartupMsg{Step: "sources", Status: "connected"})
		ui.Send(ui.StartupMsg{Step: "gateway", Status: "connected"})
		ui.Send(ui.StartupMsg{Step: "scanner", Status: "connecting"})

		for _, name := range oddsSourceNames(mono) {
			ui.Send(ui.SourceStatusMsg{Name: name, Healthy: true})
		}

		// Run the scan loop until the context is cancelled
		scanner := arbitrageDI.GetScanner(mono.Services())
		scanner.RunContinuous(ctx, cfg.Scanner.Interval)

		stopFunc()
		errCh <- nil
	}()

	// Run TUI (blocking) - shows immediately with welcome screen
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Check for background errors
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func oddsSourceNames(mono monolith.Monolith) []string {
	return oddsDI.GetOddsService(mono.Services()).SourceNames()
}
