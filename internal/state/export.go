package state

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/series"
)

// ErrNothingSelected is returned when exporting an empty selection.
var ErrNothingSelected = errors.New("no stars selected")

const (
	// CSVFilename is the suggested download name for exports.
	CSVFilename = "selected_stars.csv"

	// NothingSelectedNotice is the user-facing message for an empty export.
	NothingSelectedNotice = "No stars selected for download."
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"MAIN_ID", "SP_TYPE", "m_V", "GAL_LAT", "GAL_LON"}

// ExportCSV renders stars as CSV text in the given order.
func ExportCSV(stars []catalog.Star) (string, error) {
	if len(stars) == 0 {
		return "", ErrNothingSelected
	}

	var b strings.Builder
	if err := WriteCSV(&b, stars); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteCSV writes stars as CSV to w.
func WriteCSV(w io.Writer, stars []catalog.Star) error {
	if len(stars) == 0 {
		return ErrNothingSelected
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range stars {
		row := []string{
			s.Name,
			s.SpectralType,
			strconv.FormatFloat(s.ApparentMagnitude, 'f', -1, 64),
			fmt.Sprintf("%.4f", s.GalacticLatitude),
			fmt.Sprintf("%.4f", s.GalacticLongitude),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Bucket      string
	Color       string
	Stars       int
	WithSpectra int
}

// GenerateSummaryRows aggregates the catalog per color bucket.
func GenerateSummaryRows(cat *catalog.Catalog, filter series.FilterState) []SummaryRow {
	if cat == nil {
		return nil
	}

	var rows []SummaryRow
	for _, s := range series.Build(cat.Stars, filter) {
		row := SummaryRow{Bucket: s.Bucket, Color: s.Color, Stars: len(s.Points)}
		for _, p := range s.Points {
			if p.HasSpectra {
				row.WithSpectra++
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, snap Snapshot, timestamp time.Time) {
	fmt.Fprintf(w, "OB Star Catalog @ %s\n", timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 56))

	if snap.Catalog == nil {
		if snap.LoadError != nil {
			fmt.Fprintf(w, "Catalog unavailable: %v\n", snap.LoadError)
		} else {
			fmt.Fprintln(w, "Catalog unavailable")
		}
		return
	}

	rows := GenerateSummaryRows(snap.Catalog, snap.Filter)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No stars")
		return
	}

	fmt.Fprintf(w, "%-14s %-9s %8s %12s\n", "Bucket", "Color", "Stars", "With spectra")
	fmt.Fprintln(w, strings.Repeat("─", 56))

	total, withSpectra := 0, 0
	for _, r := range rows {
		fmt.Fprintf(w, "%-14s %-9s %8d %12d\n", truncateStr(r.Bucket, 14), r.Color, r.Stars, r.WithSpectra)
		total += r.Stars
		withSpectra += r.WithSpectra
	}

	fmt.Fprintf(w, "\nTotal: %s (%d with spectra) from %s\n", pluralStars(total), withSpectra, snap.Catalog.Source)

	if cat := snap.Catalog; cat.Emission == nil {
		fmt.Fprintln(w, "Emission map: not loaded")
	} else {
		fmt.Fprintf(w, "Emission map: %d x %d (lat x lon)\n", cat.Emission.Rows(), cat.Emission.Cols())
	}
	if n := len(snap.Catalog.Night); n == 0 {
		fmt.Fprintln(w, "Nighttime table: not loaded (computed on demand)")
	} else {
		fmt.Fprintf(w, "Nighttime table: %d stars\n", n)
	}
}

func pluralStars(n int) string {
	if n == 1 {
		return "1 star"
	}
	return fmt.Sprintf("%d stars", n)
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
