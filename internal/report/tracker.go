package report

import (
	"database/sql"
	"fmt"
)

// Tracker computes aggregate settlement metrics from the audit journal.
type Tracker struct {
	db *sql.DB
}

func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// Report contains all settlement metrics.
type Report struct {
	SettledPicks int
	TotalStaked  float64
	NetProfit    int64
	ROI          float64
	WinRate      float64
	PushRate     float64
	SportStats   map[string]SportStats
}

// SportStats contains per-sport settlement performance.
type SportStats struct {
	Picks   int
	Staked  float64
	Profit  int64
	WinRate float64
}

// Generate computes the full settlement report.
func (t *Tracker) Generate() (*Report, error) {
	r := &Report{
		SportStats: make(map[string]SportStats),
	}

	if err := t.computeOverall(r); err != nil {
		return nil, fmt.Errorf("computing overall stats: %w", err)
	}
	if err := t.computeSportStats(r); err != nil {
		return nil, fmt.Errorf("computing sport stats: %w", err)
	}

	return r, nil
}

func (t *Tracker) computeOverall(r *Report) error {
	row := t.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(stake), 0),
		       COALESCE(SUM(profit), 0),
		       COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN result = 'push' THEN 1 ELSE 0 END), 0)
		FROM settled_picks`)

	var wins, pushes int
	if err := row.Scan(&r.SettledPicks, &r.TotalStaked, &r.NetProfit, &wins, &pushes); err != nil {
		return err
	}

	if r.TotalStaked > 0 {
		r.ROI = float64(r.NetProfit) / r.TotalStaked
	}
	if r.SettledPicks > 0 {
		r.WinRate = float64(wins) / float64(r.SettledPicks)
		r.PushRate = float64(pushes) / float64(r.SettledPicks)
	}

	return nil
}

func (t *Tracker) computeSportStats(r *Report) error {
	rows, err := t.db.Query(`
		SELECT sport, COUNT(*),
		       COALESCE(SUM(stake), 0),
		       COALESCE(SUM(profit), 0),
		       COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0)
		FROM settled_picks GROUP BY sport`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sport string
		var stats SportStats
		var wins int
		if err := rows.Scan(&sport, &stats.Picks, &stats.Staked, &stats.Profit, &wins); err != nil {
			return err
		}
		if stats.Picks > 0 {
			stats.WinRate = float64(wins) / float64(stats.Picks)
		}
		r.SportStats[sport] = stats
	}
	return rows.Err()
}
