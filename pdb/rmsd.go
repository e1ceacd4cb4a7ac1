package pdb

import (
	"fmt"

	"github.com/TuftsBCB/structure"
)

// RMSD computes the RMSD between the alpha-carbon atoms of two chains, after
// optimal superposition. Only the first model of each chain is used.
//
// An error is returned if either chain has no alpha-carbon atoms or if the
// chains do not have the same number of them.
func RMSD(chain1, chain2 *Chain) (float64, error) {
	struct1, struct2 := chain1.CaAtoms(), chain2.CaAtoms()
	if len(struct1) == 0 {
		return 0.0, fmt.Errorf("chain %c in %s has no carbon-alpha ATOM "+
			"records", chain1.Ident, chain1.Entry.Name)
	}
	if len(struct2) == 0 {
		return 0.0, fmt.Errorf("chain %c in %s has no carbon-alpha ATOM "+
			"records", chain2.Ident, chain2.Entry.Name)
	}

	// If we don't have the same number of atoms from each chain, we can't
	// compute RMSD.
	if len(struct1) != len(struct2) {
		return 0.0, fmt.Errorf("chain %c in %s has %d carbon-alpha atoms, "+
			"but chain %c in %s has %d",
			chain1.Ident, chain1.Entry.Name, len(struct1),
			chain2.Ident, chain2.Entry.Name, len(struct2))
	}
	return structure.RMSD(struct1, struct2), nil
}

// RMSDEntries computes RMSD for every chain in e1 against the chain with the
// same identifier in e2. Chains missing from e2 are reported as errors.
func RMSDEntries(e1, e2 *Entry) (map[byte]float64, error) {
	rmsds := make(map[byte]float64, len(e1.Chains))
	for _, chain1 := range e1.Chains {
		chain2 := e2.Chain(chain1.Ident)
		if chain2 == nil {
			return nil, fmt.Errorf("the chain '%c' could not be found in '%s'",
				chain1.Ident, e2.Name)
		}
		r, err := RMSD(chain1, chain2)
		if err != nil {
			return nil, err
		}
		rmsds[chain1.Ident] = r
	}
	return rmsds, nil
}
