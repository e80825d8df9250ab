// Package stats contains score aggregation and reporting.
package stats

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/scoretally/internal/model"
)

// Order controls the order people are reported in.
type Order int

const (
	// OrderName sorts people by name.
	OrderName Order = iota
	// OrderFirstSeen keeps the order names first appeared in the input.
	OrderFirstSeen
)

func (o Order) String() string {
	switch o {
	case OrderFirstSeen:
		return "first-seen"
	default:
		return "name"
	}
}

// ParseOrder parses an order name.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "name":
		return OrderName, nil
	case "first-seen":
		return OrderFirstSeen, nil
	default:
		return OrderName, fmt.Errorf("unknown order %q (expected name or first-seen)", s)
	}
}

// Tally maps each person to their running stats.
type Tally struct {
	people map[string]*model.PersonStats
	seen   []string
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{people: map[string]*model.PersonStats{}}
}

// Aggregate folds records into a new tally in input order. The only failure
// is a total that no longer fits in int64.
func Aggregate(records []model.Record) (*Tally, error) {
	t := NewTally()
	for _, rec := range records {
		if err := t.Add(rec); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add folds a single record in, creating the person's entry on first sight.
func (t *Tally) Add(rec model.Record) error {
	switch r := rec.(type) {
	case model.NameOnly:
		t.entry(r.Name).MissTest()
	case model.NamedScore:
		if err := t.entry(r.Name).AddScore(r.Score); err != nil {
			return fmt.Errorf("adding %d to %q: %w", r.Score, r.Name, err)
		}
	}
	return nil
}

func (t *Tally) entry(name string) *model.PersonStats {
	ps, ok := t.people[name]
	if !ok {
		ps = &model.PersonStats{}
		t.people[name] = ps
		t.seen = append(t.seen, name)
	}
	return ps
}

// Get returns a copy of the stats for name.
func (t *Tally) Get(name string) (model.PersonStats, bool) {
	ps, ok := t.people[name]
	if !ok {
		return model.PersonStats{}, false
	}
	return *ps, true
}

// Len returns the number of distinct people.
func (t *Tally) Len() int {
	return len(t.people)
}

// Names returns every name in the requested order.
func (t *Tally) Names(order Order) []string {
	names := make([]string, len(t.seen))
	copy(names, t.seen)
	if order == OrderName {
		sort.Strings(names)
	}
	return names
}
