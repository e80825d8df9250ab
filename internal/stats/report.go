package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/scoretally/internal/model"
)

// Summary renders the test, score and missed clauses for one person.
func Summary(ps model.PersonStats) string {
	var b strings.Builder
	if ps.TestsCompleted == 1 {
		b.WriteString("1 test")
	} else {
		fmt.Fprintf(&b, "%d tests", ps.TestsCompleted)
	}
	fmt.Fprintf(&b, " with a total score of %d.", ps.Total)
	if ps.TestsMissed == 1 {
		b.WriteString(" They missed 1 test")
	} else {
		fmt.Fprintf(&b, " They missed %d tests", ps.TestsMissed)
	}
	return b.String()
}

// SummaryLine renders the full report line for one person.
func SummaryLine(name string, ps model.PersonStats) string {
	return name + " took " + Summary(ps)
}

// RenderDebug prints the parsed record sequence on one line.
func RenderDebug(w io.Writer, records []model.Record) error {
	parts := make([]string, len(records))
	for i, rec := range records {
		parts[i] = rec.String()
	}
	_, err := fmt.Fprintf(w, "Records: [%s]\n", strings.Join(parts, ", "))
	return err
}

// RenderSummary prints one summary line per person.
func RenderSummary(w io.Writer, t *Tally, order Order) error {
	for _, name := range t.Names(order) {
		ps, _ := t.Get(name)
		if _, err := fmt.Fprintln(w, SummaryLine(name, ps)); err != nil {
			return err
		}
	}
	return nil
}

// RenderTable prints the tally as aligned columns.
func RenderTable(w io.Writer, t *Tally, order Order) error {
	headers := []string{"Name", "Completed", "Missed", "Total"}
	rows := make([][]string, 0, t.Len())
	for _, name := range t.Names(order) {
		ps, _ := t.Get(name)
		rows = append(rows, []string{
			DisplayName(name),
			strconv.FormatInt(ps.TestsCompleted, 10),
			strconv.FormatInt(ps.TestsMissed, 10),
			strconv.FormatInt(ps.Total, 10),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// DisplayName labels the empty name so it stays visible in tables.
func DisplayName(name string) string {
	if name == "" {
		return "<empty>"
	}
	return name
}
