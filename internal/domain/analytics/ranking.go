package analytics

import "sort"

// Direction orders a ranking.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// Tally counts occurrences per key while remembering the order keys were
// first seen. First-encounter order is the tie-break for equal counts, so
// rankings stay stable across identical snapshots.
type Tally struct {
	counts map[string]int
	order  []string
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments key by one.
func (t *Tally) Add(key string) {
	t.AddN(key, 1)
}

// AddN increments key by n, registering the key on first encounter.
func (t *Tally) AddN(key string, n int) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key] += n
}

// Set overwrites the count for key, registering it on first encounter.
func (t *Tally) Set(key string, n int) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key] = n
}

func (t *Tally) Get(key string) int {
	return t.counts[key]
}

func (t *Tally) Len() int {
	return len(t.order)
}

// Keys returns keys in first-encounter order.
func (t *Tally) Keys() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// RankedEntry is one row of a ranked list.
type RankedEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Rank sorts the tally in the given direction and returns at most limit
// entries. The optional label func resolves display labels; when it is nil
// or returns empty, the raw key is used.
func Rank(t *Tally, dir Direction, limit int, label func(string) string) []RankedEntry {
	entries := make([]RankedEntry, 0, t.Len())
	for _, key := range t.order {
		entry := RankedEntry{Key: key, Label: key, Value: t.counts[key]}
		if label != nil {
			if l := label(key); l != "" {
				entry.Label = l
			}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if dir == Ascending {
			return entries[i].Value < entries[j].Value
		}
		return entries[i].Value > entries[j].Value
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
