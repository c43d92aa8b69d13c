package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pickledger/internal/audit"
	"pickledger/internal/config"
	"pickledger/internal/report"
	"pickledger/internal/scheduler"
	"pickledger/internal/scores"
	"pickledger/internal/settle"
	"pickledger/internal/store"
)

func main() {
	// Parse CLI flags.
	configPath := flag.String("config", "pickledger.toml", "Path to TOML config file")
	daemon := flag.Bool("daemon", false, "Keep running settlement passes on the configured interval")
	flag.Parse()

	_ = godotenv.Load() // Ignore error if .env doesn't exist.

	// Set up structured logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	slog.Info("pickledger starting")

	if p := os.Getenv("PICKLEDGER_CONFIG_PATH"); p != "" {
		*configPath = p
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if lvl := parseLevel(cfg.General.LogLevel); lvl != slog.LevelInfo {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	}

	// The scores provider is useless without a credential; abort before any
	// network call.
	if cfg.Scores.APIKey == "" {
		slog.Error("missing TOA_API_KEY")
		os.Exit(1)
	}

	// Initialize the settlement audit journal.
	journalDB, err := audit.Open(cfg.General.AuditDBPath)
	if err != nil {
		slog.Error("failed to open audit journal", "error", err)
		os.Exit(1)
	}
	defer journalDB.Close()

	if err := audit.Migrate(journalDB); err != nil {
		slog.Error("failed to run journal migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("audit journal initialized", "path", cfg.General.AuditDBPath)

	st := store.New(cfg.General.PicksPath, cfg.General.LedgerPath)
	client := scores.NewClient(cfg.Scores)
	engine := settle.NewEngine(nil)
	journal := audit.NewJournal(journalDB)
	tracker := report.NewTracker(journalDB)

	sched := scheduler.New(client, engine, st, journal, tracker, cfg.Schedule)

	// Daemon mode: run passes until signalled.
	if *daemon {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		}()

		if err := sched.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("scheduler error", "error", err)
			os.Exit(1)
		}

		slog.Info("pickledger stopped")
		return
	}

	// Batch mode: one settlement pass.
	summary, err := sched.RunOnce(context.Background())
	if err != nil {
		slog.Error("settlement run failed", "error", err)
		os.Exit(1)
	}

	if summary.OpenPicks == 0 {
		fmt.Println("No open picks.")
		return
	}

	if summary.Settled > 0 {
		fmt.Printf("Settled %d picks.\n", summary.Settled)
	} else {
		fmt.Println("No picks settled.")
	}

	for _, e := range summary.Ledger {
		fmt.Printf("%s  profit=%d  cum=%d\n", e.Month, e.Profit, e.Cumulative)
	}

	if r, err := tracker.Generate(); err == nil {
		report.LogReport(r)
	} else {
		slog.Warn("settlement report failed", "error", err)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
