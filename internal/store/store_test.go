package store

import (
	"reflect"
	"testing"

	"github.com/ratewatch/ratings-data/internal/model"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func seedRecord(code string, score float64, date string) model.Record {
	return model.Record{
		Code:        code,
		Name:        code + " name",
		Region:      "Europe",
		Grade:       "A",
		Score:       score,
		LastUpdated: date,
	}
}

func TestMerge_InsertsUnknownCode(t *testing.T) {
	s := New(nil)

	applied, changed := s.Merge([]model.PartialRecord{
		{Code: "EUR", Name: strPtr("Euro"), Score: f64Ptr(80), LastUpdated: strPtr("2024-01-01")},
	})
	if applied != 1 || !changed {
		t.Fatalf("applied = %d, changed = %v, want 1, true", applied, changed)
	}

	snap := s.Snapshot()
	if len(snap.Records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(snap.Records))
	}
	if snap.Records[0].Name != "Euro" || snap.Records[0].Score != 80 {
		t.Errorf("record = %+v", snap.Records[0])
	}
}

func TestMerge_PreservesOmittedFields(t *testing.T) {
	s := New(nil)
	s.Bootstrap([]model.Record{seedRecord("EUR", 70, "2024-01-01")})

	s.Merge([]model.PartialRecord{
		{Code: "EUR", Notes: strPtr("updated outlook")},
	})

	snap := s.Snapshot()
	got := snap.Records[0]
	if got.Notes != "updated outlook" {
		t.Errorf("Notes = %q", got.Notes)
	}
	if got.Name != "EUR name" || got.Score != 70 || got.Grade != "A" || got.Region != "Europe" {
		t.Errorf("omitted fields not preserved: %+v", got)
	}
}

func TestMerge_SkipsMalformedEntries(t *testing.T) {
	s := New(nil)

	applied, changed := s.Merge([]model.PartialRecord{
		{},
		{Code: "EUR", Score: f64Ptr(70), LastUpdated: strPtr("2024-01-01")},
		{Name: strPtr("no code")},
	})
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestMerge_EmptyBatchDoesNotBumpVersion(t *testing.T) {
	s := New(nil)
	v := s.Version()

	applied, changed := s.Merge([]model.PartialRecord{{}, {Notes: strPtr("x")}})
	if applied != 0 || changed {
		t.Fatalf("applied = %d, changed = %v, want 0, false", applied, changed)
	}
	if s.Version() != v {
		t.Errorf("Version = %d, want %d", s.Version(), v)
	}
}

func TestMerge_OneVersionBumpPerBatch(t *testing.T) {
	s := New(nil)
	v := s.Version()

	s.Merge([]model.PartialRecord{
		{Code: "EUR", Score: f64Ptr(70), LastUpdated: strPtr("2024-01-01")},
		{Code: "JPY", Score: f64Ptr(65), LastUpdated: strPtr("2024-01-01")},
		{Code: "GBP", Score: f64Ptr(72), LastUpdated: strPtr("2024-01-01")},
	})
	if got := s.Version(); got != v+1 {
		t.Errorf("Version = %d, want %d", got, v+1)
	}
}

func TestMerge_ComputesChange30dFromHistory(t *testing.T) {
	s := New(nil)
	s.Bootstrap([]model.Record{seedRecord("EUR", 70, "2024-01-01")})

	s.Merge([]model.PartialRecord{
		{Code: "EUR", Score: f64Ptr(73), LastUpdated: strPtr("2024-01-31")},
	})

	got := s.Snapshot().Records[0]
	if got.ScoreChange30d != 3 {
		t.Errorf("ScoreChange30d = %v, want 3", got.ScoreChange30d)
	}
	if pts := s.History("EUR"); len(pts) != 2 {
		t.Errorf("history points = %d, want 2", len(pts))
	}
}

func TestMerge_ExplicitChangeTakesPrecedence(t *testing.T) {
	s := New(nil)
	s.Bootstrap([]model.Record{seedRecord("EUR", 70, "2024-01-01")})

	s.Merge([]model.PartialRecord{
		{Code: "EUR", Score: f64Ptr(73), LastUpdated: strPtr("2024-01-31"), ScoreChange30d: f64Ptr(-1.2)},
	})

	if got := s.Snapshot().Records[0].ScoreChange30d; got != -1.2 {
		t.Errorf("ScoreChange30d = %v, want -1.2", got)
	}
}

func TestMerge_NoHistoryWithoutScoreAndDate(t *testing.T) {
	s := New(nil)
	s.Bootstrap([]model.Record{seedRecord("EUR", 70, "2024-01-01")})

	// A reconciliation-style partial: change and date only, no score.
	s.Merge([]model.PartialRecord{
		{Code: "EUR", ScoreChange30d: f64Ptr(0.4), LastUpdated: strPtr("2024-02-15")},
	})

	if pts := s.History("EUR"); len(pts) != 1 {
		t.Errorf("history points = %d, want 1", len(pts))
	}
	got := s.Snapshot().Records[0]
	if got.ScoreChange30d != 0.4 || got.LastUpdated != "2024-02-15" || got.Score != 70 {
		t.Errorf("record = %+v", got)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	s := New(nil)
	s.Bootstrap([]model.Record{seedRecord("EUR", 70, "2024-01-01")})

	batch := []model.PartialRecord{
		{Code: "EUR", Score: f64Ptr(73), LastUpdated: strPtr("2024-01-31"), Notes: strPtr("n")},
	}
	s.Merge(batch)
	first := s.Snapshot().Records

	s.Merge(batch)
	second := s.Snapshot().Records

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeat merge diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSnapshot_IsolatedFromStore(t *testing.T) {
	s := New(nil)
	s.Bootstrap([]model.Record{seedRecord("EUR", 70, "2024-01-01")})

	snap := s.Snapshot()
	snap.Records[0].Score = 1
	snap.Records[0].Notes = "mutated"

	got := s.Snapshot().Records[0]
	if got.Score != 70 || got.Notes != "" {
		t.Errorf("snapshot mutation leaked into store: %+v", got)
	}
}

func TestBootstrap_RecomputesInitialChange(t *testing.T) {
	s := New(nil)
	s.Bootstrap([]model.Record{
		{Code: "EUR", Score: 70, ScoreChange30d: 9.9, LastUpdated: "2024-01-01"},
	})

	// Single seeded point: change from inception is 0.
	if got := s.Snapshot().Records[0].ScoreChange30d; got != 0 {
		t.Errorf("ScoreChange30d = %v, want 0", got)
	}
}

func TestHistorySink_ReceivesAppends(t *testing.T) {
	var codes []string
	s := New(nil, WithHistorySink(func(code string, p model.HistoryPoint) {
		codes = append(codes, code+"@"+p.Date)
	}))

	s.Merge([]model.PartialRecord{
		{Code: "EUR", Score: f64Ptr(70), LastUpdated: strPtr("2024-01-01")},
	})

	want := []string{"EUR@2024-01-01"}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("sink calls = %v, want %v", codes, want)
	}
}

func TestCodes_InsertionOrder(t *testing.T) {
	s := New(nil)
	s.Merge([]model.PartialRecord{
		{Code: "USD", Score: f64Ptr(90), LastUpdated: strPtr("2024-01-01")},
		{Code: "EUR", Score: f64Ptr(80), LastUpdated: strPtr("2024-01-01")},
		{Code: "JPY", Score: f64Ptr(70), LastUpdated: strPtr("2024-01-01")},
	})

	want := []string{"USD", "EUR", "JPY"}
	if got := s.Codes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Codes = %v, want %v", got, want)
	}
}
