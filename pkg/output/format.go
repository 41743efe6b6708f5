// Package output provides utilities for formatting and displaying forecast reports.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/occupancy-forecast/internal/forecast"
	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders report in the named output format.
func Write(w io.Writer, format string, report *forecast.Report) error {
	switch format {
	case constants.OutputFormatPretty:
		return WritePretty(w, report)
	case constants.OutputFormatCSV:
		return WriteCSV(w, report)
	case constants.OutputFormatJSON:
		return WriteJSON(w, report)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// WritePretty writes the report as aligned tables with thousands separators.
func WritePretty(w io.Writer, report *forecast.Report) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	ew.printf(p, "--- Occupancy report anchored at %s ---\n", report.Anchor.Format(datetime.DateLayout))
	ew.printf(p, "Month   | Occupancy | Revenue | Bookings\n")
	ew.printf(p, "_____   | _________ | _______ | ________\n")
	for _, bucket := range report.Series {
		ew.printf(p, "%s | %d%% | $%.2f | %d\n",
			datetime.MonthLabel(bucket.MonthStart), bucket.OccupancyRate, bucket.Revenue, bucket.BookingCount)
	}

	ew.printf(p, "\n--- Forecast ---\n")
	ew.printf(p, "Month   | Occupancy | Revenue\n")
	ew.printf(p, "_____   | _________ | _______\n")
	for _, point := range report.Forecast {
		ew.printf(p, "%s | %d%% | $%.2f\n", point.MonthLabel, point.OccupancyRate, point.Revenue)
	}

	ew.printf(p, "\n--- Seasonal profile ---\n")
	for _, entry := range report.Seasonal {
		ew.printf(p, "%s | %d%% | $%.2f\n", entry.Month(), entry.AvgOccupancy, entry.AvgRevenue)
	}
	if report.Peak != nil {
		ew.printf(p, "Peak season: %s (%d%%)\n", report.Peak.Month(), report.Peak.AvgOccupancy)
	}
	if report.Low != nil {
		ew.printf(p, "Low season: %s (%d%%)\n", report.Low.Month(), report.Low.AvgOccupancy)
	}

	ew.printf(p, "\n--- Property ranking ---\n")
	ew.printf(p, "Rank | Property | Occupancy | Revenue | Bookings\n")
	for i, row := range report.Ranking {
		ew.printf(p, "%d | %s | %d%% | $%.2f | %d\n", i+1, row.PropertyID, row.Occupancy, row.Revenue, row.BookingCount)
	}

	s := report.Summary
	ew.printf(p, "\nSummary: average occupancy %d%%, latest %d%% (%s), revenue $%.2f, %d properties, %d bookings\n",
		s.AverageOccupancy, s.LatestOccupancy, s.LatestBand, s.TotalRevenue, s.Properties, s.Bookings)
	if !report.Warning.Empty() {
		ew.printf(p, "Warning: %s\n", report.Warning.String())
	}
	return ew.err
}

// WriteCSV writes one row per month, actual months first, then forecast months.
func WriteCSV(w io.Writer, report *forecast.Report) error {
	ew := &errWriter{w: w}
	ew.printf(nil, `"month","occupancy","revenue","bookings","forecast"`+"\n")
	for _, bucket := range report.Series {
		ew.printf(nil, `"%s","%d","%.2f","%d","false"`+"\n",
			datetime.MonthLabel(bucket.MonthStart), bucket.OccupancyRate, bucket.Revenue, bucket.BookingCount)
	}
	for _, point := range report.Forecast {
		ew.printf(nil, `"%s","%d","%.2f","","true"`+"\n", point.MonthLabel, point.OccupancyRate, point.Revenue)
	}
	return ew.err
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report *forecast.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// errWriter keeps the first write error so table rendering can skip the checks.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(p *message.Printer, format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	if p == nil {
		_, ew.err = fmt.Fprintf(ew.w, format, args...)
		return
	}
	_, ew.err = p.Fprintf(ew.w, format, args...)
}

// CsvString returns the CSV rendering of the report as a string.
func CsvString(report *forecast.Report) string {
	var buf strings.Builder
	_ = WriteCSV(&buf, report)
	return buf.String()
}
