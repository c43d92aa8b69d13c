package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pickledger/internal/pick"
)

// Open creates or opens the settlement journal at the given path with WAL
// mode enabled.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return db, nil
}

// Migrate runs the schema creation SQL. Safe to call multiple times due to IF NOT EXISTS.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	_, err := db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (1)`)
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	return nil
}

// Journal records settlement activity for auditing. The JSON data files
// remain the source of truth; journal writes must never break a run.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// RecordRun inserts one row for the settlement pass plus one row per pick
// settled by it, and returns the run id. Pick rows are deduplicated on pick
// id so replaying a run cannot double-count.
func (j *Journal) RecordRun(startedAt time.Time, openPicks int, settled []pick.Pick) (int64, error) {
	res, err := j.db.Exec(`
		INSERT INTO settlement_runs (started_at, open_picks, settled_picks)
		VALUES (?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), openPicks, len(settled),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting settlement run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, p := range settled {
		if err := j.recordPick(runID, p); err != nil {
			return runID, fmt.Errorf("recording pick %s: %w", p.ID, err)
		}
	}

	return runID, nil
}

func (j *Journal) recordPick(runID int64, p pick.Pick) error {
	var profit int64
	if p.Profit != nil {
		profit = *p.Profit
	}

	var settledAt string
	if p.SettledAt != nil {
		settledAt = p.SettledAt.UTC().Format(time.RFC3339)
	}

	var homeScore, awayScore *float64
	var homeTeam, awayTeam string
	if p.Meta != nil {
		homeScore = p.Meta.HomeScore
		awayScore = p.Meta.AwayScore
		homeTeam = p.Meta.HomeTeam
		awayTeam = p.Meta.AwayTeam
	}

	_, err := j.db.Exec(`
		INSERT OR IGNORE INTO settled_picks
			(run_id, pick_id, event_id, sport, market, selection, stake, odds,
			 result, profit, home_score, away_score, home_team, away_team, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, p.ID, p.EventID, p.Sport, string(p.Market), p.Selection,
		p.Stake, p.Odds, string(p.Result), profit,
		homeScore, awayScore, homeTeam, awayTeam, settledAt,
	)
	return err
}
