package scheduler

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"pickledger/internal/audit"
	"pickledger/internal/config"
	"pickledger/internal/ledger"
	"pickledger/internal/pick"
	"pickledger/internal/scores"
	"pickledger/internal/settle"
	"pickledger/internal/store"
)

// fakeSource returns a canned lookup and records what was asked of it.
type fakeSource struct {
	lookup  map[string]scores.Record
	asked   map[string][]string
	fetches int
}

func (f *fakeSource) FetchAll(_ context.Context, eventsBySport map[string][]string) map[string]scores.Record {
	f.fetches++
	f.asked = eventsBySport
	return f.lookup
}

func fp(v float64) *float64 { return &v }

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
}

func newTestScheduler(t *testing.T, source ScoreSource) (*Scheduler, *store.Store) {
	t.Helper()

	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "picks.json"), filepath.Join(dir, "monthly-pl.json"))

	db, err := audit.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := audit.Migrate(db); err != nil {
		t.Fatal(err)
	}

	sched := New(source, settle.NewEngine(fixedClock), st, audit.NewJournal(db), nil, config.ScheduleConfig{})
	return sched, st
}

func seedPicks(t *testing.T, st *store.Store, picks []pick.Pick) {
	t.Helper()
	if err := st.SavePicks(picks); err != nil {
		t.Fatal(err)
	}
}

func openPick(id, sport, eventID string) pick.Pick {
	return pick.Pick{
		ID: id, EventID: eventID, Sport: sport,
		Market: pick.MarketH2H, Selection: "home",
		Stake: 100, Odds: 2.5, Status: pick.StatusOpen,
	}
}

func TestRunOnce_NoOpenPicksSkipsFetch(t *testing.T) {
	source := &fakeSource{}
	sched, st := newTestScheduler(t, source)

	profit := int64(50)
	now := fixedClock()
	seedPicks(t, st, []pick.Pick{{
		ID: "p1", EventID: "ev1", Sport: "soccer_epl",
		Market: pick.MarketH2H, Selection: "home",
		Stake: 100, Odds: 1.5,
		Status: pick.StatusSettled, Result: pick.ResultWin,
		Profit: &profit, SettledAt: &now,
	}})

	summary, err := sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.OpenPicks != 0 {
		t.Errorf("expected 0 open picks, got %d", summary.OpenPicks)
	}
	if source.fetches != 0 {
		t.Errorf("expected no upstream fetches, got %d", source.fetches)
	}
}

func TestRunOnce_SettlesAndPersists(t *testing.T) {
	source := &fakeSource{lookup: map[string]scores.Record{
		"ev1": {EventID: "ev1", Completed: true, Home: fp(3), Away: fp(1), HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
	}}
	sched, st := newTestScheduler(t, source)

	seedPicks(t, st, []pick.Pick{
		openPick("p1", "soccer_epl", "ev1"),
		openPick("p2", "soccer_epl", "ev2"), // no score record -> stays open
	})

	summary, err := sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.OpenPicks != 2 || summary.Settled != 1 || !summary.Changed {
		t.Errorf("unexpected summary: %+v", summary)
	}

	want := []ledger.Entry{{Month: "2024-03", Profit: 150, Cumulative: 150}}
	if !reflect.DeepEqual(summary.Ledger, want) {
		t.Errorf("ledger mismatch:\n got %+v\nwant %+v", summary.Ledger, want)
	}

	persisted, err := st.LoadPicks()
	if err != nil {
		t.Fatal(err)
	}
	if persisted[0].Status != pick.StatusSettled {
		t.Errorf("settled pick not persisted: %+v", persisted[0])
	}
	if persisted[1].Status != pick.StatusOpen {
		t.Errorf("undecidable pick should stay open: %+v", persisted[1])
	}
}

func TestRunOnce_GroupsEventsBySport(t *testing.T) {
	source := &fakeSource{}
	sched, st := newTestScheduler(t, source)

	seedPicks(t, st, []pick.Pick{
		openPick("p1", "soccer_epl", "ev1"),
		openPick("p2", "soccer_epl", "ev1"), // same event, must not duplicate
		openPick("p3", "basketball_nba", "ev2"),
	})

	if _, err := sched.RunOnce(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := source.asked["soccer_epl"]; len(got) != 1 || got[0] != "ev1" {
		t.Errorf("unexpected soccer event set: %v", got)
	}
	if got := source.asked["basketball_nba"]; len(got) != 1 || got[0] != "ev2" {
		t.Errorf("unexpected nba event set: %v", got)
	}
}

func TestRunOnce_SecondRunIsNoOp(t *testing.T) {
	source := &fakeSource{lookup: map[string]scores.Record{
		"ev1": {EventID: "ev1", Completed: true, Home: fp(3), Away: fp(1)},
	}}
	sched, st := newTestScheduler(t, source)

	seedPicks(t, st, []pick.Pick{openPick("p1", "soccer_epl", "ev1")})

	first, err := sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.Settled != 1 {
		t.Fatalf("first run: expected 1 settlement, got %d", first.Settled)
	}

	second, err := sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second.OpenPicks != 0 || second.Settled != 0 {
		t.Errorf("second run should be a no-op: %+v", second)
	}
}

func TestRunOnce_LedgerAlwaysRewritten(t *testing.T) {
	source := &fakeSource{lookup: map[string]scores.Record{}}
	sched, st := newTestScheduler(t, source)

	seedPicks(t, st, []pick.Pick{openPick("p1", "soccer_epl", "ev1")})

	summary, err := sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Changed {
		t.Error("nothing settled, picks file should be untouched")
	}
	if summary.Ledger == nil {
		t.Error("ledger should still be rebuilt")
	}
}
