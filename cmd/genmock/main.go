// Command genmock reads a field-visit CSV export and generates the mock data
// fixtures used by the ETL tests and by report assembly. It runs the real
// domain package so the report rows match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/mock/field_visit_measurements.csv \
//	  -raw-out data/mock/field_visit_measurements.json \
//	  -report-out data/mock/field_visit_report_rows.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/couchcryptid/field-visit-etl/internal/domain"
)

// fixedProcessedAt keeps report fixtures byte-stable across runs.
var fixedProcessedAt = time.Date(2024, time.May, 15, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "field-visit CSV export")
	rawOut := flag.String("raw-out", "", "output path for the raw JSON fixture")
	reportOut := flag.String("report-out", "", "output path for the report row fixture")
	flag.Parse()

	if *csvPath == "" || *rawOut == "" || *reportOut == "" {
		flag.Usage()
		return errors.New("missing required flags: -csv, -raw-out, -report-out")
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixedProcessedAt))
	defer domain.SetClock(nil)

	records, err := readCSV(*csvPath)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *csvPath, err)
	}

	rows := make([]domain.ReportRow, 0, len(records))
	var st stats
	for i := range records {
		row, err := transform(records[i], &st)
		if err != nil {
			log.Printf("skipping %s: %v", records[i].Identifier, err)
			st.rejected++
			continue
		}
		rows = append(rows, row)
	}

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s (%d records)", *rawOut, len(records))

	if err := writeJSON(*reportOut, rows); err != nil {
		return fmt.Errorf("writing report fixture: %w", err)
	}
	log.Printf("wrote report fixture: %s (%d rows)", *reportOut, len(rows))

	st.print(len(records), rows)
	return nil
}

func readCSV(path string) ([]domain.RawFieldVisitRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) < 2 {
		return nil, errors.New("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range all[0] {
		colIdx[h] = i
	}

	records := make([]domain.RawFieldVisitRecord, 0, len(all)-1)
	for n, row := range all[1:] {
		rec, err := rowToRecord(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// rowToRecord maps one CSV row onto the loader's wire record. Empty cells
// become nulls; trailing empty shift boundaries are dropped.
func rowToRecord(row []string, idx map[string]int) (domain.RawFieldVisitRecord, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	discharge, err := nullDecimal(get("Discharge"))
	if err != nil {
		return domain.RawFieldVisitRecord{}, fmt.Errorf("discharge: %w", err)
	}
	gageHeight, err := nullDecimal(get("MeanGageHeight"))
	if err != nil {
		return domain.RawFieldVisitRecord{}, fmt.Errorf("mean gage height: %w", err)
	}
	boundaries, err := shiftBoundaries(get("ShiftMax"), get("Shift"), get("ShiftMin"))
	if err != nil {
		return domain.RawFieldVisitRecord{}, err
	}
	shiftNumber, err := optionalInt(get("ShiftNumber"))
	if err != nil {
		return domain.RawFieldVisitRecord{}, fmt.Errorf("shift number: %w", err)
	}

	return domain.RawFieldVisitRecord{
		Identifier:            get("Identifier"),
		LocationIdentifier:    get("Location"),
		MeasurementNumber:     get("MeasurementNumber"),
		ControlCondition:      get("ControlCondition"),
		Discharge:             discharge,
		DischargeUnits:        get("DischargeUnits"),
		GageHeightUnits:       get("GageHeightUnits"),
		Grade:                 optionalString(get("Grade")),
		MeasurementStartDate:  get("StartTime"),
		MeanGageHeight:        gageHeight,
		ShiftBoundaries:       boundaries,
		RatingModelIdentifier: optionalString(get("RatingModel")),
		ShiftNumber:           shiftNumber,
		Historic:              get("Historic") == "true",
		Publish:               get("Publish") == "true",
	}, nil
}

func shiftBoundaries(values ...string) ([]decimal.NullDecimal, error) {
	out := make([]decimal.NullDecimal, 0, len(values))
	for _, v := range values {
		d, err := nullDecimal(v)
		if err != nil {
			return nil, fmt.Errorf("shift boundary: %w", err)
		}
		out = append(out, d)
	}
	for len(out) > 0 && !out[len(out)-1].Valid {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func nullDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// transform runs the same domain steps as the pipeline transformer.
func transform(rec domain.RawFieldVisitRecord, st *stats) (domain.ReportRow, error) {
	m, err := domain.BuildMeasurement(rec)
	if err != nil {
		return domain.ReportRow{}, err
	}
	if _, ok := domain.ParseGrade(rec.GradeLabel()); !ok {
		st.fallbacks++
	}
	switch err := domain.EnrichMeasurement(m, rec); {
	case err != nil:
		st.shiftFailures++
	case len(rec.ShiftBoundaries) > 0:
		st.shiftsApplied++
	}
	return domain.NewReportRow(m), nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// stats holds the counts printed for updating test assertions.
type stats struct {
	rejected      int
	fallbacks     int
	shiftsApplied int
	shiftFailures int
}

func (s stats) print(total int, rows []domain.ReportRow) {
	gradeCounts := map[domain.Grade]int{}
	for i := range rows {
		gradeCounts[rows[i].QualityRating]++
	}
	grades := make([]string, 0, len(gradeCounts))
	for g := range gradeCounts {
		grades = append(grades, string(g))
	}
	sort.Strings(grades)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Records: %d, rows: %d, rejected: %d\n", total, len(rows), s.rejected)
	fmt.Print("By grade:")
	for _, g := range grades {
		fmt.Printf(" %s=%d", g, gradeCounts[domain.Grade(g)])
	}
	fmt.Println()
	fmt.Printf("Grade fallbacks: %d\n", s.fallbacks)
	fmt.Printf("Shifts applied: %d, shift failures: %d\n", s.shiftsApplied, s.shiftFailures)
}
