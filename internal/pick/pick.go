package pick

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Status tracks the lifecycle of a pick. A pick transitions open -> settled
// exactly once and never back.
type Status string

const (
	StatusOpen    Status = "open"
	StatusSettled Status = "settled"
)

// Market is the bet category. The settlement engine only ever settles
// markets it explicitly knows how to resolve; anything else stays open.
type Market string

const (
	MarketH2H    Market = "h2h"
	MarketTotals Market = "totals"
)

// Result is the settled outcome of a pick. The empty string means
// "not decidable yet" and never appears on a settled pick.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultPush Result = "push"
)

// Meta snapshots the scores and team names a pick was settled from,
// kept so every settlement can be audited without refetching.
type Meta struct {
	HomeScore *float64 `json:"homeScore"`
	AwayScore *float64 `json:"awayScore"`
	HomeTeam  string   `json:"homeTeam"`
	AwayTeam  string   `json:"awayTeam"`
}

// Pick is a single wagered selection on a sporting event. JSON field names
// match the on-disk picks file format.
type Pick struct {
	ID           string     `json:"id" validate:"required"`
	EventID      string     `json:"eventId" validate:"required"`
	Sport        string     `json:"sport" validate:"required"`
	Market       Market     `json:"market" validate:"required"`
	Selection    string     `json:"selection" validate:"required"`
	Line         *float64   `json:"line,omitempty"`
	Stake        float64    `json:"stake" validate:"gt=0"`
	Odds         float64    `json:"odds" validate:"gte=1"`
	CommenceTime *time.Time `json:"commence_time,omitempty"`
	Status       Status     `json:"status"`
	Result       Result     `json:"result,omitempty"`
	Profit       *int64     `json:"profit,omitempty"`
	SettledAt    *time.Time `json:"settledAt,omitempty"`
	Meta         *Meta      `json:"meta,omitempty"`
}

var validate = validator.New()

// Validate checks the structural fields a pick needs before it can ever be
// settled. Market is deliberately unconstrained: an unrecognized market is
// not invalid, it just never settles.
func (p Pick) Validate() error {
	return validate.Struct(p)
}

// Open reports whether the pick is still awaiting settlement.
func (p Pick) Open() bool {
	return p.Status == StatusOpen
}
