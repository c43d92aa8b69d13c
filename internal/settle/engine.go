package settle

import (
	"time"

	"pickledger/internal/pick"
	"pickledger/internal/scores"
)

// Engine turns open picks into settled ones from a per-event score lookup.
// It owns pick mutation exclusively; persistence is the caller's problem.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an Engine. A nil clock means time.Now; tests inject a
// fixed one.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Run produces a new pick collection in which every open, structurally valid
// pick whose event is completed and whose outcome is decidable becomes
// settled, with result, profit, settledAt and the score snapshot filled in.
// Every other pick passes through untouched, which makes Run idempotent:
// a second pass over its own output settles nothing.
//
// It returns the updated collection and the picks settled this run.
func (e *Engine) Run(picks []pick.Pick, lookup map[string]scores.Record) ([]pick.Pick, []pick.Pick) {
	updated := make([]pick.Pick, len(picks))
	var settled []pick.Pick

	for i, p := range picks {
		updated[i] = p

		if p.Status != pick.StatusOpen {
			continue
		}
		if p.Validate() != nil {
			continue
		}

		rec, ok := lookup[p.EventID]
		if !ok || !rec.Completed {
			continue
		}

		result := Resolve(p, rec.Home, rec.Away)
		if result == "" {
			continue
		}

		profit := Profit(result, p.Stake, p.Odds)
		settledAt := e.now().UTC()

		p.Status = pick.StatusSettled
		p.Result = result
		p.Profit = &profit
		p.SettledAt = &settledAt
		p.Meta = &pick.Meta{
			HomeScore: rec.Home,
			AwayScore: rec.Away,
			HomeTeam:  rec.HomeTeam,
			AwayTeam:  rec.AwayTeam,
		}

		updated[i] = p
		settled = append(settled, p)
	}

	return updated, settled
}
