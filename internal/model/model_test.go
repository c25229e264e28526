package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecord_CloneIsDeep(t *testing.T) {
	reserves := 243.0
	r := Record{Code: "USD", Score: 88.1, ReservesUSDBillions: &reserves}

	c := r.Clone()
	*c.ReservesUSDBillions = 1

	if *r.ReservesUSDBillions != 243.0 {
		t.Errorf("clone aliased reserves pointer: %v", *r.ReservesUSDBillions)
	}
}

func TestPartialRecord_OmittedFieldsStayNil(t *testing.T) {
	var p PartialRecord
	if err := json.Unmarshal([]byte(`{"code":"EUR","score":73}`), &p); err != nil {
		t.Fatal(err)
	}

	if p.Code != "EUR" {
		t.Errorf("Code = %q", p.Code)
	}
	if p.Score == nil || *p.Score != 73 {
		t.Errorf("Score = %v, want 73", p.Score)
	}
	if p.Name != nil || p.LastUpdated != nil || p.ScoreChange30d != nil {
		t.Error("omitted fields must remain nil")
	}
}

func TestGradeRank_OrdersLadder(t *testing.T) {
	if GradeRank("D") != 0 {
		t.Errorf("rank(D) = %d, want 0", GradeRank("D"))
	}
	if GradeRank("AAA") != len(gradeLadder)-1 {
		t.Errorf("rank(AAA) = %d", GradeRank("AAA"))
	}
	if GradeRank("BBB") >= GradeRank("A-") {
		t.Error("BBB must rank below A-")
	}
	if GradeRank("ZZZ") != -1 {
		t.Errorf("rank(ZZZ) = %d, want -1", GradeRank("ZZZ"))
	}
}

func TestGradeForScore_MonotonicAndBounded(t *testing.T) {
	if got := GradeForScore(0); got != "D" {
		t.Errorf("grade(0) = %q, want D", got)
	}
	if got := GradeForScore(100); got != "AAA" {
		t.Errorf("grade(100) = %q, want AAA", got)
	}
	if got := GradeForScore(-5); got != "D" {
		t.Errorf("grade(-5) = %q, want D", got)
	}
	if got := GradeForScore(250); got != "AAA" {
		t.Errorf("grade(250) = %q, want AAA", got)
	}

	prev := -1
	for score := 0.0; score <= 100; score += 0.5 {
		rank := GradeRank(GradeForScore(score))
		if rank < prev {
			t.Fatalf("grade rank dropped at score %v", score)
		}
		prev = rank
	}
}

func TestToCSV(t *testing.T) {
	reserves := 243.0
	records := []Record{
		{Code: "USD", Name: "US Dollar", Score: 88.1, ReservesUSDBillions: &reserves, LastUpdated: "2025-08-01"},
		{Code: "EUR", Name: "Euro, sort of", Score: 84.6},
	}

	csv := ToCSV(records)
	lines := strings.Split(csv, "\n")

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), csv)
	}
	if !strings.HasPrefix(lines[0], "code,name,country") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "USD,US Dollar") || !strings.Contains(lines[1], "243") {
		t.Errorf("USD row = %q", lines[1])
	}
	// Commas in values must be quoted.
	if !strings.Contains(lines[2], `"Euro, sort of"`) {
		t.Errorf("EUR row = %q", lines[2])
	}
	// Nil reserves renders as an empty field.
	if !strings.Contains(lines[2], ",,") {
		t.Errorf("EUR row should contain an empty reserves field: %q", lines[2])
	}
}

func TestTopMoversAndMostStable(t *testing.T) {
	records := []Record{
		{Code: "USD", ScoreChange30d: 0},
		{Code: "BRL", ScoreChange30d: -1.9},
		{Code: "GBP", ScoreChange30d: 0.9},
		{Code: "JPY", ScoreChange30d: -1.2},
	}

	movers := TopMovers(records, "30d", 2)
	if len(movers) != 2 || movers[0].Code != "BRL" || movers[1].Code != "JPY" {
		t.Errorf("top movers = %v", codes(movers))
	}

	stable := MostStable(records, "30d", 1)
	if len(stable) != 1 || stable[0].Code != "USD" {
		t.Errorf("most stable = %v", codes(stable))
	}

	// Input order is untouched.
	if records[0].Code != "USD" || records[1].Code != "BRL" {
		t.Error("ranking mutated the input slice order")
	}
}

func codes(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Code
	}
	return out
}
