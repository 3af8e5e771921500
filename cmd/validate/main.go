// Command validate performs data integrity checks across the field-visit mock
// fixtures: the raw JSON published by the loader and the report rows produced
// from it. It verifies counts, transformation correctness, error envelope
// arithmetic, and shift consistency.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw-json data/mock/field_visit_measurements.json \
//	  -report-json data/mock/field_visit_report_rows.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/couchcryptid/field-visit-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawJSON := flag.String("raw-json", "", "path to the raw measurement JSON fixture")
	reportJSON := flag.String("report-json", "", "path to the report row JSON fixture")
	flag.Parse()

	if *rawJSON == "" || *reportJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawJSON, *reportJSON); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, reportPath string) int {
	fmt.Println("=== Field Visit Data Integrity Validation ===")
	fmt.Println()

	raws, err := loadJSON[domain.RawFieldVisitRecord](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	rows, err := loadJSON[domain.ReportRow](reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load report JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRawIntegrity(raws),
		validateTransformation(raws, rows),
		validateEnvelope(rows),
		validateShifts(rows),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw JSON, %d report rows\n", len(raws), len(rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Raw Integrity ──

func validateRawIntegrity(raws []domain.RawFieldVisitRecord) *phase {
	p := &phase{name: "Phase 1: Raw Integrity (loader JSON)"}

	seen := map[string]bool{}
	for i := range raws {
		rec := &raws[i]
		if rec.Identifier == "" {
			p.errorf("raw record %d: missing identifier", i)
			continue
		}
		if seen[rec.Identifier] {
			p.errorf("raw record %d: duplicate identifier %q", i, rec.Identifier)
		}
		seen[rec.Identifier] = true

		if _, err := domain.ParseTimestamp(rec.MeasurementStartDate); err != nil {
			p.errorf("%s: %v", rec.Identifier, err)
		}
		if len(rec.ShiftBoundaries) > 3 {
			p.errorf("%s: %d shift boundaries (at most 3 are used)", rec.Identifier, len(rec.ShiftBoundaries))
		}
	}
	return p
}

// ── Phase 2: Transformation ──
// Re-runs the domain transformation on each raw record and compares the
// result with the report fixture.

func validateTransformation(raws []domain.RawFieldVisitRecord, rows []domain.ReportRow) *phase {
	p := &phase{name: "Phase 2: Transformation (report vs raw)"}

	byID := make(map[string]*domain.ReportRow, len(rows))
	for i := range rows {
		byID[rows[i].Identifier] = &rows[i]
	}

	matched := 0
	for i := range raws {
		rec := raws[i]
		m, err := domain.BuildMeasurement(rec)
		if err != nil {
			if _, ok := byID[rec.Identifier]; ok {
				p.errorf("%s: rejected by transformation (%v) but present in report fixture", rec.Identifier, err)
			}
			continue
		}
		_ = domain.EnrichMeasurement(m, rec) // shift failures publish without shifts

		row, ok := byID[rec.Identifier]
		if !ok {
			p.errorf("%s: missing from report fixture", rec.Identifier)
			continue
		}
		matched++
		compareRow(p, domain.NewReportRow(m), row)
	}

	if matched != len(rows) {
		p.errorf("report fixture has %d rows, only %d match raw records", len(rows), matched)
	}
	return p
}

func compareRow(p *phase, want domain.ReportRow, got *domain.ReportRow) {
	id := want.Identifier

	if got.QualityRating != want.QualityRating {
		p.errorf("%s: qualityRating: expected %s, got %s", id, want.QualityRating, got.QualityRating)
	}
	if got.MeasurementStartDate != want.MeasurementStartDate {
		p.errorf("%s: measurementStartDate: expected %q, got %q", id, want.MeasurementStartDate, got.MeasurementStartDate)
	}
	for i := range want.OutputValues {
		if !got.OutputValues[i].Equal(want.OutputValues[i]) {
			p.errorf("%s: outputValues[%d]: expected %s, got %s", id, i, want.OutputValues[i], got.OutputValues[i])
		}
	}
	compareNull(p, id, "shiftInFeet", want.ShiftInFeet, got.ShiftInFeet)
	compareNull(p, id, "errorMaxShiftInFeet", want.ErrorMaxShiftInFeet, got.ErrorMaxShiftInFeet)
	compareNull(p, id, "errorMinShiftInFeet", want.ErrorMinShiftInFeet, got.ErrorMinShiftInFeet)
	compareNull(p, id, "meanGageHeight", want.MeanGageHeight, got.MeanGageHeight)

	if ptrStr(got.RatingModelIdentifier) != ptrStr(want.RatingModelIdentifier) {
		p.errorf("%s: ratingModelIdentifier: expected %s, got %s", id, ptrStr(want.RatingModelIdentifier), ptrStr(got.RatingModelIdentifier))
	}
	if got.ShiftNumber != want.ShiftNumber || got.Historic != want.Historic || got.Publish != want.Publish {
		p.errorf("%s: metadata mismatch (shiftNumber/historic/publish)", id)
	}
}

func compareNull(p *phase, id, field string, want, got decimal.NullDecimal) {
	switch {
	case want.Valid != got.Valid:
		p.errorf("%s: %s: expected valid=%t, got valid=%t", id, field, want.Valid, got.Valid)
	case want.Valid && !want.Decimal.Equal(got.Decimal):
		p.errorf("%s: %s: expected %s, got %s", id, field, want.Decimal, got.Decimal)
	}
}

// ── Phase 3: Error Envelope ──
// Checks each row's envelope against its grade percentage and the
// (errorMax, discharge, errorMin) output order.

func validateEnvelope(rows []domain.ReportRow) *phase {
	p := &phase{name: "Phase 3: Error Envelope (grade arithmetic)"}

	one := decimal.NewFromInt(1)
	for i := range rows {
		r := &rows[i]
		grade, ok := domain.ParseGrade(string(r.QualityRating))
		if !ok {
			p.errorf("%s: qualityRating %q is not a known grade", r.Identifier, r.QualityRating)
			continue
		}

		pct := grade.Percentage()
		wantMax := r.Discharge.Mul(one.Add(pct))
		wantMin := r.Discharge.Mul(one.Sub(pct))
		if !r.ErrorMaxDischarge.Equal(wantMax) {
			p.errorf("%s: errorMaxDischarge: expected %s, got %s", r.Identifier, wantMax, r.ErrorMaxDischarge)
		}
		if !r.ErrorMinDischarge.Equal(wantMin) {
			p.errorf("%s: errorMinDischarge: expected %s, got %s", r.Identifier, wantMin, r.ErrorMinDischarge)
		}

		ov := r.OutputValues
		if !ov[0].Equal(r.ErrorMaxDischarge) || !ov[1].Equal(r.Discharge) || !ov[2].Equal(r.ErrorMinDischarge) {
			p.errorf("%s: outputValues not ordered (errorMax, discharge, errorMin): %v", r.Identifier, ov)
		}
	}
	return p
}

// ── Phase 4: Shifts ──

func validateShifts(rows []domain.ReportRow) *phase {
	p := &phase{name: "Phase 4: Shifts (gage height consistency)"}

	for i := range rows {
		r := &rows[i]
		anyShift := r.ShiftInFeet.Valid || r.ErrorMaxShiftInFeet.Valid || r.ErrorMinShiftInFeet.Valid
		if anyShift && !r.MeanGageHeight.Valid {
			p.errorf("%s: shifts present without a mean gage height", r.Identifier)
		}
		if r.ProcessedAt.IsZero() {
			p.errorf("%s: processedAt is zero", r.Identifier)
		}
	}
	return p
}

func ptrStr(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
