package model

import "time"

// DateLayout is the calendar-date wire format used throughout the dataset.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date (YYYY-MM-DD) in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Signals holds the qualitative signal labels for a currency.
type Signals struct {
	Fundamentals string `json:"fundamentals"`
	Momentum     string `json:"momentum"`
	Liquidity    string `json:"liquidity"`
}

// Drivers holds the named driver sub-scores, each on a 0-100 scale.
type Drivers struct {
	Inflation    float64 `json:"inflation"`
	Growth       float64 `json:"growth"`
	DebtFiscal   float64 `json:"debt_fiscal"`
	External     float64 `json:"external"`
	Reserves     float64 `json:"reserves"`
	TermsOfTrade float64 `json:"terms_of_trade"`
	Policy       float64 `json:"policy"`
	Liquidity    float64 `json:"liquidity"`
	Political    float64 `json:"political"`
}

// Record is the current state of one rated currency.
// Code is the immutable primary key; everything else mutates through merges.
type Record struct {
	Code                 string   `json:"code"`
	Name                 string   `json:"name"`
	Country              string   `json:"country"`
	Region               string   `json:"region"`
	Grade                string   `json:"grade"`
	Score                float64  `json:"score"`
	ScoreChange30d       float64  `json:"score_change_30d"`
	ScoreChange90d       float64  `json:"score_change_90d"`
	Signals              Signals  `json:"signals"`
	Drivers              Drivers  `json:"drivers"`
	Regime               string   `json:"regime"`
	PolicyRate           float64  `json:"policy_rate"`
	ReservesUSDBillions  *float64 `json:"reserves_usd_b"`
	CurrentAccountGDPPct float64  `json:"current_account_gdp_pct"`
	Notes                string   `json:"notes"`
	LastUpdated          string   `json:"last_updated"` // YYYY-MM-DD
}

// PartialRecord is a merge entry: only fields present in the JSON payload are
// applied over the existing record. An entry without a code is malformed and
// skipped by the store.
type PartialRecord struct {
	Code                 string   `json:"code"`
	Name                 *string  `json:"name,omitempty"`
	Country              *string  `json:"country,omitempty"`
	Region               *string  `json:"region,omitempty"`
	Grade                *string  `json:"grade,omitempty"`
	Score                *float64 `json:"score,omitempty"`
	ScoreChange30d       *float64 `json:"score_change_30d,omitempty"`
	ScoreChange90d       *float64 `json:"score_change_90d,omitempty"`
	Signals              *Signals `json:"signals,omitempty"`
	Drivers              *Drivers `json:"drivers,omitempty"`
	Regime               *string  `json:"regime,omitempty"`
	PolicyRate           *float64 `json:"policy_rate,omitempty"`
	ReservesUSDBillions  *float64 `json:"reserves_usd_b,omitempty"`
	CurrentAccountGDPPct *float64 `json:"current_account_gdp_pct,omitempty"`
	Notes                *string  `json:"notes,omitempty"`
	LastUpdated          *string  `json:"last_updated,omitempty"`
}

// HistoryPoint is one (date, score) observation for a currency.
type HistoryPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Score float64 `json:"score"`
}

// Snapshot is an immutable point-in-time view of the full dataset.
// Records preserve insertion order; Version identifies the store state
// that produced the view.
type Snapshot struct {
	Version uint64
	Records []Record
}

// Clone returns a deep copy of the record. Records contain one pointer field
// (ReservesUSDBillions), which is duplicated so callers never alias store
// state.
func (r Record) Clone() Record {
	out := r
	if r.ReservesUSDBillions != nil {
		v := *r.ReservesUSDBillions
		out.ReservesUSDBillions = &v
	}
	return out
}
