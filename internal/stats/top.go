package stats

import "sort"

// TopByTotal returns up to n names with the highest total score.
func TopByTotal(t *Tally, n int) []string {
	if n <= 0 || t.Len() == 0 {
		return nil
	}
	type item struct {
		name  string
		total int64
	}
	items := make([]item, 0, t.Len())
	for name, ps := range t.people {
		items = append(items, item{name: name, total: ps.Total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total == items[j].total {
			return items[i].name < items[j].name
		}
		return items[i].total > items[j].total
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].name)
	}
	return out
}
