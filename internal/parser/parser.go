// Package parser turns score file lines into records.
package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/verte-zerg/scoretally/internal/model"
)

// Delimiter separates a name from its score.
const Delimiter = ":"

// Options tunes line parsing.
type Options struct {
	// TrimNames strips surrounding whitespace from names. Scores are never trimmed.
	TrimNames bool
}

// MalformedScoreError reports a score field that is not a signed integer.
type MalformedScoreError struct {
	Text string
	Err  error
}

func (e *MalformedScoreError) Error() string {
	return fmt.Sprintf("malformed score %q: %v", e.Text, e.Err)
}

func (e *MalformedScoreError) Unwrap() error {
	return e.Err
}

// LineError attaches a 1-based line number to a parse failure.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ReadError reports a score file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ParseLine parses a single line with default options.
func ParseLine(line string) (model.Record, error) {
	return ParseLineWith(line, Options{})
}

// ParseLineWith parses a single line. A line without the delimiter is a missed
// test; otherwise field 0 is the name and field 1 the score. Further fields are ignored.
func ParseLineWith(line string, opts Options) (model.Record, error) {
	if !strings.Contains(line, Delimiter) {
		return model.NameOnly{Name: normalizeName(line, opts)}, nil
	}
	fields := strings.Split(line, Delimiter)
	score, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &MalformedScoreError{Text: fields[1], Err: err}
	}
	return model.NamedScore{Name: normalizeName(fields[0], opts), Score: score}, nil
}

// Parse parses whole file contents. Only trailing whitespace of the content is
// stripped. The first bad line aborts the parse and no records are returned.
func Parse(content string, opts Options) ([]model.Record, error) {
	lines := strings.Split(strings.TrimRightFunc(content, unicode.IsSpace), "\n")
	records := make([]model.Record, 0, len(lines))
	for i, line := range lines {
		rec, err := ParseLineWith(line, opts)
		if err != nil {
			return nil, &LineError{Line: i + 1, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseFile reads path in one call and parses its contents.
func ParseFile(path string, opts Options) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return Parse(string(data), opts)
}

func normalizeName(name string, opts Options) string {
	if opts.TrimNames {
		return strings.TrimSpace(name)
	}
	return name
}
