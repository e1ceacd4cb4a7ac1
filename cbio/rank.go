package cbio

import "sort"

// DefaultTopN is the number of mutations shown in the chart and the table.
const DefaultTopN = 5

// Top returns the n mutations with the largest tumor alternate allele count,
// in descending order. A missing count ranks as zero. Mutations with equal
// counts keep the order the API returned them in. The input is not modified.
func Top(muts []Mutation, n int) []Mutation {
	ranked := make([]Mutation, len(muts))
	copy(ranked, muts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AltCount() > ranked[j].AltCount()
	})
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
