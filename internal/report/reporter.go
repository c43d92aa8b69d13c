package report

import (
	"log/slog"
)

// LogReport logs the settlement report as structured JSON.
func LogReport(r *Report) {
	slog.Info("=== SETTLEMENT REPORT ===",
		"settled_picks", r.SettledPicks,
		"total_staked", r.TotalStaked,
		"net_profit", r.NetProfit,
		"roi", r.ROI,
		"win_rate", r.WinRate,
		"push_rate", r.PushRate,
	)

	for sport, stats := range r.SportStats {
		slog.Info("sport performance",
			"sport", sport,
			"picks", stats.Picks,
			"staked", stats.Staked,
			"profit", stats.Profit,
			"win_rate", stats.WinRate,
		)
	}
}
