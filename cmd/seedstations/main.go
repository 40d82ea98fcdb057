// Command seedstations bulk-imports OSCE stations from an Excel workbook into
// the static_osce table via the same idempotent upsert as the publish
// pipeline. The first sheet is expected to carry a header row followed by one
// station per row: Station Name, Category, Candidate Brief, Actor Brief,
// Examiner Brief, Markscheme, with an optional Source column.
// Usage: go run ./cmd/seedstations stations.xlsx
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"oscehub/internal/config"
	"oscehub/internal/domain"
	"oscehub/internal/port"
	"oscehub/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Println("Usage: seedstations <workbook.xlsx>")
		os.Exit(1)
	}
	xlsxPath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	stations := postgres.NewStationRepo(db)

	records, err := readWorkbook(xlsxPath)
	if err != nil {
		return err
	}
	log.Printf("%s: %d station rows", xlsxPath, len(records))

	ctx := context.Background()
	var applied, noops, failed int
	for i := range records {
		rec := &records[i]
		outcome, err := stations.Upsert(ctx, rec)
		switch {
		case err != nil:
			log.Printf("row %d (%q): upsert failed: %v", i+2, rec.StationName, err)
			failed++
		case outcome == port.UpsertNoOp:
			noops++
		default:
			applied++
		}
	}

	log.Printf("done: %d upserted, %d unchanged, %d failed", applied, noops, failed)
	if failed > 0 {
		return fmt.Errorf("%d rows failed to upsert", failed)
	}
	return nil
}

func readWorkbook(path string) ([]domain.StationRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	var records []domain.StationRecord
	for _, row := range rows[1:] { // skip header
		rec := domain.StationRecord{
			StationName:    cell(row, 0),
			Category:       cell(row, 1),
			CandidateBrief: cell(row, 2),
			ActorBrief:     cell(row, 3),
			ExaminerBrief:  cell(row, 4),
			Markscheme:     cell(row, 5),
			SourceFile:     cell(row, 6),
		}
		if rec.StationName == "" && rec.CandidateBrief == "" {
			continue // blank row
		}
		rec.ID = rec.Identity()
		records = append(records, rec)
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
