package settle

import (
	"github.com/shopspring/decimal"

	"pickledger/internal/pick"
)

var one = decimal.NewFromInt(1)

// Profit computes the realized profit of a settled pick in whole currency
// units. A win pays stake*(odds-1) — net profit, the returned stake is not
// included. A loss forfeits the stake, a push returns it.
//
// Amounts are rounded half away from zero; the mode matters because ledger
// totals are exact sums of these figures.
func Profit(result pick.Result, stake, odds float64) int64 {
	switch result {
	case pick.ResultWin:
		return decimal.NewFromFloat(stake).
			Mul(decimal.NewFromFloat(odds).Sub(one)).
			Round(0).
			IntPart()
	case pick.ResultLoss:
		return -decimal.NewFromFloat(stake).Round(0).IntPart()
	default:
		return 0
	}
}
