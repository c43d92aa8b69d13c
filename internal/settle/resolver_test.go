package settle

import (
	"testing"

	"pickledger/internal/pick"
)

func fp(v float64) *float64 { return &v }

func h2hPick(selection string) pick.Pick {
	return pick.Pick{Market: pick.MarketH2H, Selection: selection}
}

func totalsPick(selection string, line float64) pick.Pick {
	return pick.Pick{Market: pick.MarketTotals, Selection: selection, Line: fp(line)}
}

func TestResolve_H2HHomeWin(t *testing.T) {
	if got := Resolve(h2hPick("home"), fp(3), fp(1)); got != pick.ResultWin {
		t.Errorf("home selection with 3-1 score: expected win, got %q", got)
	}
	if got := Resolve(h2hPick("away"), fp(3), fp(1)); got != pick.ResultLoss {
		t.Errorf("away selection with 3-1 score: expected loss, got %q", got)
	}
}

func TestResolve_H2HAwayWin(t *testing.T) {
	if got := Resolve(h2hPick("away"), fp(0), fp(2)); got != pick.ResultWin {
		t.Errorf("away selection with 0-2 score: expected win, got %q", got)
	}
	if got := Resolve(h2hPick("home"), fp(0), fp(2)); got != pick.ResultLoss {
		t.Errorf("home selection with 0-2 score: expected loss, got %q", got)
	}
}

func TestResolve_H2HDraw(t *testing.T) {
	if got := Resolve(h2hPick("draw"), fp(1), fp(1)); got != pick.ResultWin {
		t.Errorf("draw selection with 1-1 score: expected win, got %q", got)
	}
	if got := Resolve(h2hPick("home"), fp(1), fp(1)); got != pick.ResultLoss {
		t.Errorf("home selection with 1-1 score: expected loss, got %q", got)
	}
	if got := Resolve(h2hPick("away"), fp(2), fp(2)); got != pick.ResultLoss {
		t.Errorf("away selection with 2-2 score: expected loss, got %q", got)
	}
}

func TestResolve_H2HInvalidSelection(t *testing.T) {
	// An unscorable selection on a decided game stays open rather than being
	// silently scored.
	if got := Resolve(h2hPick("both"), fp(3), fp(1)); got != "" {
		t.Errorf("invalid selection: expected undetermined, got %q", got)
	}
}

func TestResolve_SelectionCaseInsensitive(t *testing.T) {
	if got := Resolve(h2hPick("HOME"), fp(3), fp(1)); got != pick.ResultWin {
		t.Errorf("uppercase selection: expected win, got %q", got)
	}
	if got := Resolve(totalsPick("Over", 2.5), fp(2), fp(1)); got != pick.ResultWin {
		t.Errorf("mixed-case over: expected win, got %q", got)
	}
}

func TestResolve_TotalsOverUnder(t *testing.T) {
	// total = 2 against line 2.5
	if got := Resolve(totalsPick("under", 2.5), fp(1), fp(1)); got != pick.ResultWin {
		t.Errorf("under 2.5 with total 2: expected win, got %q", got)
	}
	if got := Resolve(totalsPick("over", 2.5), fp(1), fp(1)); got != pick.ResultLoss {
		t.Errorf("over 2.5 with total 2: expected loss, got %q", got)
	}
}

func TestResolve_TotalsPush(t *testing.T) {
	// total exactly on the line pushes either way
	if got := Resolve(totalsPick("over", 2), fp(1), fp(1)); got != pick.ResultPush {
		t.Errorf("over 2 with total 2: expected push, got %q", got)
	}
	if got := Resolve(totalsPick("under", 2), fp(1), fp(1)); got != pick.ResultPush {
		t.Errorf("under 2 with total 2: expected push, got %q", got)
	}
}

func TestResolve_TotalsInvalidSelection(t *testing.T) {
	if got := Resolve(totalsPick("between", 2.5), fp(1), fp(1)); got != "" {
		t.Errorf("invalid totals selection: expected undetermined, got %q", got)
	}
}

func TestResolve_TotalsMissingLine(t *testing.T) {
	p := pick.Pick{Market: pick.MarketTotals, Selection: "over"}
	if got := Resolve(p, fp(1), fp(1)); got != "" {
		t.Errorf("totals without line: expected undetermined, got %q", got)
	}
}

func TestResolve_NilScores(t *testing.T) {
	if got := Resolve(h2hPick("home"), nil, fp(1)); got != "" {
		t.Errorf("nil home score: expected undetermined, got %q", got)
	}
	if got := Resolve(totalsPick("over", 2.5), fp(1), nil); got != "" {
		t.Errorf("nil away score: expected undetermined, got %q", got)
	}
}

func TestResolve_UnknownMarket(t *testing.T) {
	p := pick.Pick{Market: "spreads", Selection: "home"}
	if got := Resolve(p, fp(3), fp(1)); got != "" {
		t.Errorf("unknown market: expected undetermined, got %q", got)
	}
}
