// Package report renders the screen-flash diagnostic table.
package report

import (
	"fmt"
	"io"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// Header is the first line of the table
const Header = "Audio Level | Brightness"

// Trailer is printed after a blank line once every row is written
const Trailer = "Screen flash logic OK"

// SampleLevels are the audio levels checked by the flash test
var SampleLevels = []float64{0.0, 0.03, 0.08, 0.15, 0.25, 0.4, 0.6, 0.8}

// Row is one classified level
type Row struct {
	Level      float64
	Brightness domain.BrightnessLevel
}

// Mismatches returns the rows of got that differ from want at the same position
func Mismatches(want, got []Row) []Row {
	var diff []Row
	for i, row := range got {
		if i >= len(want) || want[i] != row {
			diff = append(diff, row)
		}
	}
	return diff
}

// Rows classifies every level in order
func Rows(c *domain.Classifier, levels []float64) []Row {
	rows := make([]Row, len(levels))
	for i, level := range levels {
		rows[i] = Row{Level: level, Brightness: c.Classify(level)}
	}
	return rows
}

// Write prints the table for levels followed by the trailer
func Write(w io.Writer, c *domain.Classifier, levels []float64) error {
	return WriteRows(w, Rows(c, levels))
}

// WriteRows prints already classified rows
func WriteRows(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%10.2f | %9d%%\n", row.Level, int(row.Brightness)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", Trailer); err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}

	return nil
}
