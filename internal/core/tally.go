package core

import (
	"fmt"
	"sort"
	"strconv"
)

// Tally counts, per faculty, how many students placed them at each
// preference rank.
//
// The result has one row per distinct non-empty canonicalized faculty name,
// sorted ascending, and one count column per rank ("Count Pref 1" through
// "Count Pref N"). Counts start at zero for every faculty that appears
// anywhere in the preferences, so a faculty nobody ranked first still shows
// a 0 in that column. Blank preference cells are never counted.
func Tally(t *Table, codes CodeTable) (*Table, error) {
	layout, err := DetectPreferenceColumns(t.Header)
	if err != nil {
		return nil, err
	}

	ranks := layout.Ranks()
	counts := make(map[string][]int)
	for _, row := range t.Rows {
		for rank, p := range layout.Preferences {
			name := codes.Canonical(row[p])
			if name == "" {
				continue
			}
			perRank, ok := counts[name]
			if !ok {
				perRank = make([]int, ranks)
				counts[name] = perRank
			}
			perRank[rank]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	header := make([]string, 0, ranks+1)
	header = append(header, "Fac")
	for rank := 1; rank <= ranks; rank++ {
		header = append(header, fmt.Sprintf("Count Pref %d", rank))
	}

	out := &Table{Header: header, Rows: make([][]string, len(names))}
	for i, name := range names {
		row := make([]string, 0, ranks+1)
		row = append(row, name)
		for _, count := range counts[name] {
			row = append(row, strconv.Itoa(count))
		}
		out.Rows[i] = row
	}
	return out, nil
}
