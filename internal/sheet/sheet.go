// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet reads input tables and writes result tables as CSV. The
// enrichment core never touches files; this package is the I/O collaborator
// on both sides of it.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/affiliation-engine/internal/enrich"
	"github.com/pdiddy/affiliation-engine/pkg/types"
)

// Column names recognized in the input header, after whitespace trimming.
// Matching is exact and case-sensitive.
const (
	doiColumn   = "DOI"
	titleColumn = "Title"
)

// ReadRecords parses a CSV table into input records. The first row is the
// header; header cells are trimmed before matching because spreadsheet
// exports often carry hidden spaces. Cell values are trimmed, blank cells
// count as absent, and rows with every cell blank are skipped. RowIndex is
// assigned sequentially over the surviving rows.
func ReadRecords(r io.Reader) ([]types.InputRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input table is empty")
	}

	doiCol, titleCol := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case doiColumn:
			doiCol = i
		case titleColumn:
			titleCol = i
		}
	}
	if doiCol < 0 && titleCol < 0 {
		return nil, fmt.Errorf("input table has neither a %q nor a %q column", doiColumn, titleColumn)
	}

	var records []types.InputRecord
	for _, row := range rows[1:] {
		if allBlank(row) {
			continue
		}
		rec := types.InputRecord{RowIndex: len(records)}
		if doiCol >= 0 && doiCol < len(row) {
			rec.DOI = strings.TrimSpace(row[doiCol])
		}
		if titleCol >= 0 && titleCol < len(row) {
			rec.Title = strings.TrimSpace(row[titleCol])
		}
		records = append(records, rec)
	}
	return records, nil
}

func allBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// resultsHeader matches the augmented-spreadsheet column layout.
var resultsHeader = []string{
	"Row", "DOI", "Title", "Resolved_Title", "Authors",
	"Universities", "Countries", "Caribbean", "URL",
}

// WriteResults writes the flattened result rows as CSV, one per input row,
// in input order.
func WriteResults(w io.Writer, rows []enrich.ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return fmt.Errorf("writing results header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.RowIndex + 1),
			row.DOI,
			row.Title,
			row.ResolvedTitle,
			row.Authors,
			row.Institutions,
			row.Countries,
			string(row.Verdict),
			row.URL,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing result row %d: %w", row.RowIndex+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var reviewHeader = []string{"Row_Number", "DOI", "Title", "Reason"}

// WriteManualReview writes the manual-review queue as CSV.
func WriteManualReview(w io.Writer, entries []types.ManualReviewEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reviewHeader); err != nil {
		return fmt.Errorf("writing review header: %w", err)
	}
	for _, e := range entries {
		record := []string{strconv.Itoa(e.RowNumber), e.DOI, e.Title, e.Reason}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing review row %d: %w", e.RowNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
