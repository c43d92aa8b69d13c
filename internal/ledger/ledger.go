package ledger

import (
	"sort"
	"time"

	"pickledger/internal/pick"
)

// Entry is one month of realized profit plus the running total over all
// earlier months. JSON field names match the on-disk monthly-pl file.
type Entry struct {
	Month      string `json:"month"`
	Profit     int64  `json:"profit"`
	Cumulative int64  `json:"cum"`
}

// Build folds settled picks into a ledger ordered ascending by month, one
// entry per distinct month, with a running cumulative sum. It is a pure
// fold: the same settled picks always produce the same ledger regardless of
// input order. A nil clock means time.Now.
func Build(picks []pick.Pick, now func() time.Time) []Entry {
	if now == nil {
		now = time.Now
	}

	byMonth := make(map[string]int64)
	for _, p := range picks {
		if p.Status != pick.StatusSettled {
			continue
		}
		var profit int64
		if p.Profit != nil {
			profit = *p.Profit
		}
		byMonth[monthKey(p, now)] += profit
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	entries := make([]Entry, 0, len(months))
	var cum int64
	for _, m := range months {
		cum += byMonth[m]
		entries = append(entries, Entry{Month: m, Profit: byMonth[m], Cumulative: cum})
	}
	return entries
}

// monthKey derives the UTC YYYY-MM bucket for a settled pick. The engine
// always stamps settledAt, so the fallbacks only matter for picks settled by
// older tooling: commence time first, then the current run time.
func monthKey(p pick.Pick, now func() time.Time) string {
	const layout = "2006-01"
	switch {
	case p.SettledAt != nil:
		return p.SettledAt.UTC().Format(layout)
	case p.CommenceTime != nil:
		return p.CommenceTime.UTC().Format(layout)
	default:
		return now().UTC().Format(layout)
	}
}
