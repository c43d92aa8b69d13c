package scores

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is the normalized final-score view of one event. Home/Away are nil
// when the upstream payload carried no usable score row for that side; a
// pick must never be settled from a record with a nil score or
// Completed=false.
type Record struct {
	EventID   string
	Completed bool
	Home      *float64
	Away      *float64
	HomeTeam  string
	AwayTeam  string
}

// eventPayload mirrors one element of The Odds API scores response.
type eventPayload struct {
	ID        string     `json:"id"`
	SportKey  string     `json:"sport_key"`
	Completed bool       `json:"completed"`
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	Scores    []scoreRow `json:"scores"`
}

// scoreRow is one per-side score entry. The API labels rows either with the
// literal "home"/"away" or with the team's display name, and sends score
// values as strings.
type scoreRow struct {
	Name  string          `json:"name"`
	Score json.RawMessage `json:"score"`
}

// normalize extracts the canonical (home, away) score pair from a raw event
// payload. Row names are matched case-insensitively against "home"/"away"
// and the team display names; malformed or null rows are skipped, leaving
// the corresponding side nil.
func normalize(ev eventPayload) Record {
	rec := Record{
		EventID:   ev.ID,
		Completed: ev.Completed,
		HomeTeam:  ev.HomeTeam,
		AwayTeam:  ev.AwayTeam,
	}

	homeName := strings.ToLower(ev.HomeTeam)
	awayName := strings.ToLower(ev.AwayTeam)

	for _, row := range ev.Scores {
		val, ok := scoreValue(row.Score)
		if !ok {
			continue
		}
		name := strings.ToLower(row.Name)
		if name == "home" || (homeName != "" && name == homeName) {
			v := val
			rec.Home = &v
		}
		if name == "away" || (awayName != "" && name == awayName) {
			v := val
			rec.Away = &v
		}
	}

	return rec
}

// scoreValue coerces a raw score value to a float. The API sends scores as
// strings, but bare numbers are accepted too; null and anything unparseable
// report false.
func scoreValue(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	return 0, false
}
