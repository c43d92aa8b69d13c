package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pickledger/internal/audit"
	"pickledger/internal/config"
	"pickledger/internal/ledger"
	"pickledger/internal/pick"
	"pickledger/internal/report"
	"pickledger/internal/scores"
	"pickledger/internal/settle"
	"pickledger/internal/store"
)

// ScoreSource supplies the per-event score lookup for a settlement pass.
// *scores.Client satisfies it; tests substitute a canned one.
type ScoreSource interface {
	FetchAll(ctx context.Context, eventsBySport map[string][]string) map[string]scores.Record
}

// Scheduler orchestrates settlement passes: load picks, fetch scores, settle,
// persist, rebuild the ledger, journal the run.
type Scheduler struct {
	source  ScoreSource
	engine  *settle.Engine
	store   *store.Store
	journal *audit.Journal
	tracker *report.Tracker
	cfg     config.ScheduleConfig
}

// New creates a Scheduler with all dependencies. journal and tracker may be
// nil, in which case the pass runs without the audit journal.
func New(
	source ScoreSource,
	engine *settle.Engine,
	st *store.Store,
	journal *audit.Journal,
	tracker *report.Tracker,
	cfg config.ScheduleConfig,
) *Scheduler {
	return &Scheduler{
		source:  source,
		engine:  engine,
		store:   st,
		journal: journal,
		tracker: tracker,
		cfg:     cfg,
	}
}

// Summary describes what one settlement pass did.
type Summary struct {
	OpenPicks int
	Settled   int
	Changed   bool
	Ledger    []ledger.Entry
}

// RunOnce executes a single settlement pass. When there are no open picks it
// returns immediately without touching the network or the data files. Store
// failures abort the pass; fetch failures only leave the affected sport's
// picks open.
func (s *Scheduler) RunOnce(ctx context.Context) (*Summary, error) {
	picks, err := s.store.LoadPicks()
	if err != nil {
		return nil, fmt.Errorf("loading picks: %w", err)
	}

	eventsBySport, openCount, invalid := groupOpenEvents(picks)
	if invalid > 0 {
		slog.Warn("open picks failed validation and will not settle", "count", invalid)
	}
	if openCount == 0 {
		return &Summary{}, nil
	}

	startedAt := time.Now().UTC()
	lookup := s.source.FetchAll(ctx, eventsBySport)

	updated, settled := s.engine.Run(picks, lookup)

	changed := len(settled) > 0
	if changed {
		if err := s.store.SavePicks(updated); err != nil {
			return nil, fmt.Errorf("saving picks: %w", err)
		}
	}

	led := ledger.Build(updated, nil)
	if err := s.store.SaveLedger(led); err != nil {
		return nil, fmt.Errorf("saving ledger: %w", err)
	}

	if s.journal != nil {
		if _, err := s.journal.RecordRun(startedAt, openCount, settled); err != nil {
			slog.Warn("audit journal write failed", "error", err)
		}
	}

	slog.Info("settlement pass complete",
		"open_picks", openCount,
		"settled", len(settled),
		"ledger_months", len(led),
	)

	return &Summary{
		OpenPicks: openCount,
		Settled:   len(settled),
		Changed:   changed,
		Ledger:    led,
	}, nil
}

// Run executes a pass immediately, then keeps running passes and periodic
// reports until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting",
		"settle_interval", s.cfg.SettleInterval.Duration,
		"report_interval", s.cfg.ReportInterval.Duration,
	)

	s.runPass(ctx)

	settleTicker := time.NewTicker(s.cfg.SettleInterval.Duration)
	reportTicker := time.NewTicker(s.cfg.ReportInterval.Duration)
	defer settleTicker.Stop()
	defer reportTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()
		case <-settleTicker.C:
			s.runPass(ctx)
		case <-reportTicker.C:
			s.runReport()
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	summary, err := s.RunOnce(ctx)
	if err != nil {
		slog.Error("settlement pass failed", "error", err)
		return
	}
	if summary.OpenPicks == 0 {
		slog.Info("no open picks")
	}
}

func (s *Scheduler) runReport() {
	if s.tracker == nil {
		return
	}
	r, err := s.tracker.Generate()
	if err != nil {
		slog.Error("settlement report failed", "error", err)
		return
	}
	report.LogReport(r)
}

// groupOpenEvents collects the unique event ids of valid open picks keyed by
// sport, so each sport costs exactly one upstream call. It also counts open
// picks and how many of them were structurally invalid.
func groupOpenEvents(picks []pick.Pick) (map[string][]string, int, int) {
	bySport := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	openCount, invalid := 0, 0

	for _, p := range picks {
		if p.Status != pick.StatusOpen {
			continue
		}
		openCount++
		if p.Validate() != nil {
			invalid++
			continue
		}
		if seen[p.Sport] == nil {
			seen[p.Sport] = make(map[string]bool)
		}
		if seen[p.Sport][p.EventID] {
			continue
		}
		seen[p.Sport][p.EventID] = true
		bySport[p.Sport] = append(bySport[p.Sport], p.EventID)
	}

	return bySport, openCount, invalid
}
