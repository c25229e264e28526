package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var csvHeaders = []string{
	"code", "name", "country", "region", "grade", "score",
	"score_change_30d", "score_change_90d", "regime", "policy_rate",
	"reserves_usd_b", "current_account_gdp_pct", "last_updated",
}

// ToCSV renders records as a CSV document with a fixed header row.
func ToCSV(records []Record) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeaders, ","))
	for _, r := range records {
		reserves := ""
		if r.ReservesUSDBillions != nil {
			reserves = formatFloat(*r.ReservesUSDBillions)
		}
		fields := []string{
			r.Code, r.Name, r.Country, r.Region, r.Grade,
			formatFloat(r.Score),
			formatFloat(r.ScoreChange30d),
			formatFloat(r.ScoreChange90d),
			r.Regime,
			formatFloat(r.PolicyRate),
			reserves,
			formatFloat(r.CurrentAccountGDPPct),
			r.LastUpdated,
		}
		b.WriteByte('\n')
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(f))
		}
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\n\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// TopMovers returns the records with the largest absolute change over the
// given window ("30d" or "90d"), best first.
func TopMovers(records []Record, window string, limit int) []Record {
	return rankByChange(records, window, limit, func(a, b float64) bool { return a > b })
}

// MostStable returns the records with the smallest absolute change over the
// given window, most stable first.
func MostStable(records []Record, window string, limit int) []Record {
	return rankByChange(records, window, limit, func(a, b float64) bool { return a < b })
}

func rankByChange(records []Record, window string, limit int, less func(a, b float64) bool) []Record {
	change := func(r Record) float64 {
		if window == "90d" {
			return math.Abs(r.ScoreChange90d)
		}
		return math.Abs(r.ScoreChange30d)
	}
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return less(change(out[i]), change(out[j]))
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
