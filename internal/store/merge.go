package store

import "github.com/ratewatch/ratings-data/internal/model"

// applyPartial copies every field present in the partial over the record.
// The code is identity and never reassigned.
func applyPartial(rec *model.Record, p model.PartialRecord) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Country != nil {
		rec.Country = *p.Country
	}
	if p.Region != nil {
		rec.Region = *p.Region
	}
	if p.Grade != nil {
		rec.Grade = *p.Grade
	}
	if p.Score != nil {
		rec.Score = *p.Score
	}
	if p.ScoreChange30d != nil {
		rec.ScoreChange30d = *p.ScoreChange30d
	}
	if p.ScoreChange90d != nil {
		rec.ScoreChange90d = *p.ScoreChange90d
	}
	if p.Signals != nil {
		rec.Signals = *p.Signals
	}
	if p.Drivers != nil {
		rec.Drivers = *p.Drivers
	}
	if p.Regime != nil {
		rec.Regime = *p.Regime
	}
	if p.PolicyRate != nil {
		rec.PolicyRate = *p.PolicyRate
	}
	if p.ReservesUSDBillions != nil {
		v := *p.ReservesUSDBillions
		rec.ReservesUSDBillions = &v
	}
	if p.CurrentAccountGDPPct != nil {
		rec.CurrentAccountGDPPct = *p.CurrentAccountGDPPct
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
	if p.LastUpdated != nil {
		rec.LastUpdated = *p.LastUpdated
	}
}
