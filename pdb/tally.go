package pdb

import "sort"

// ResidueCount is the number of times a residue name occurs.
type ResidueCount struct {
	Residue string
	Count   int
}

// Tally counts occurrences of each residue name and returns the counts in
// descending order. Residues with equal counts keep the order in which they
// were first seen, so the result is deterministic for a given input.
func Tally(residues []string) []ResidueCount {
	index := make(map[string]int, 25)
	counts := make([]ResidueCount, 0, 25)
	for _, r := range residues {
		if i, ok := index[r]; ok {
			counts[i].Count++
			continue
		}
		index[r] = len(counts)
		counts = append(counts, ResidueCount{Residue: r, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
