package settle

import (
	"strings"

	"pickledger/internal/pick"
)

// resolverFunc maps a lowercased selection and final scores to a result.
// The line argument is only meaningful for totals. An empty result means
// the pick is not decidable and must stay open.
type resolverFunc func(selection string, line *float64, home, away float64) pick.Result

// resolvers is the closed dispatch table of supported markets. Adding a
// market means adding exactly one entry here plus its resolver.
var resolvers = map[pick.Market]resolverFunc{
	pick.MarketH2H:    resolveH2H,
	pick.MarketTotals: resolveTotals,
}

// Resolve determines the outcome of a pick from final scores. It returns
// the empty Result when the market is unsupported, either score is missing,
// or the selection cannot be scored; the caller leaves such picks open.
func Resolve(p pick.Pick, home, away *float64) pick.Result {
	fn, ok := resolvers[p.Market]
	if !ok {
		return ""
	}
	if home == nil || away == nil {
		return ""
	}
	return fn(strings.ToLower(p.Selection), p.Line, *home, *away)
}

func resolveH2H(selection string, _ *float64, home, away float64) pick.Result {
	// A tie pays the draw and beats everything else, including selections
	// that would otherwise be unscorable.
	if home == away {
		if selection == "draw" {
			return pick.ResultWin
		}
		return pick.ResultLoss
	}

	homeWin := home > away
	switch selection {
	case "home":
		if homeWin {
			return pick.ResultWin
		}
		return pick.ResultLoss
	case "away":
		if homeWin {
			return pick.ResultLoss
		}
		return pick.ResultWin
	}
	return ""
}

func resolveTotals(selection string, line *float64, home, away float64) pick.Result {
	// A totals pick without a line is ambiguous, not a loss.
	if line == nil {
		return ""
	}

	total := home + away
	switch selection {
	case "over":
		switch {
		case total > *line:
			return pick.ResultWin
		case total == *line:
			return pick.ResultPush
		default:
			return pick.ResultLoss
		}
	case "under":
		switch {
		case total < *line:
			return pick.ResultWin
		case total == *line:
			return pick.ResultPush
		default:
			return pick.ResultLoss
		}
	}
	return ""
}
