// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrTotalOverflow is returned when a score would push a total outside int64.
var ErrTotalOverflow = errors.New("total score overflows int64")

// Record is one parsed input line: either NameOnly or NamedScore.
type Record interface {
	PersonName() string
	fmt.Stringer
	isRecord()
}

// NameOnly marks a missed test. Only the name was present on the line.
type NameOnly struct {
	Name string
}

// NamedScore is a completed test with its score.
type NamedScore struct {
	Name  string
	Score int64
}

// PersonName returns the name the record belongs to.
func (r NameOnly) PersonName() string { return r.Name }

// PersonName returns the name the record belongs to.
func (r NamedScore) PersonName() string { return r.Name }

func (r NameOnly) String() string {
	return fmt.Sprintf("NameOnly(%q)", r.Name)
}

func (r NamedScore) String() string {
	return fmt.Sprintf("NamedScore(%q, %d)", r.Name, r.Score)
}

func (NameOnly) isRecord()   {}
func (NamedScore) isRecord() {}

// PersonStats is the running aggregate for one person.
type PersonStats struct {
	Total          int64
	TestsCompleted int64
	TestsMissed    int64
}

// AddScore folds in a completed test. On overflow the stats are left unchanged.
func (p *PersonStats) AddScore(score int64) error {
	if (score > 0 && p.Total > math.MaxInt64-score) || (score < 0 && p.Total < math.MinInt64-score) {
		return ErrTotalOverflow
	}
	p.Total += score
	p.TestsCompleted++
	return nil
}

// MissTest folds in a missed test.
func (p *PersonStats) MissTest() {
	p.TestsMissed++
}

// ReportConfig defines resolved output options for a run.
type ReportConfig struct {
	Order     string
	TrimNames bool
	Debug     bool
	Table     bool
	Save      bool
	LogLevel  string
}

// Run describes a stored input run.
type Run struct {
	ID          int64
	SourcePath  string
	LoadedAt    time.Time
	RecordCount int
}
