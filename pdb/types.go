package pdb

import (
	"fmt"
	"strings"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/structure"
)

// Entry represents the chains found in a PDB file.
type Entry struct {
	Name   string
	IdCode string
	Chains []*Chain
}

// Chain represents a protein chain or subunit in a PDB file. Each chain has
// its own identifier, amino acid sequence (from SEQRES records) and the
// residues found in ATOM records, grouped by model.
type Chain struct {
	Entry    *Entry
	Ident    byte
	Sequence []seq.Residue
	Models   []*Model
}

// Model is one model of a chain. Most files have exactly one.
type Model struct {
	Num      int
	Residues []*Residue
}

// Residue corresponds to all ATOM records sharing a residue sequence number.
type Residue struct {
	Name        string
	SequenceNum int
	Atoms       []Atom
}

// Atom is a single ATOM record.
type Atom struct {
	Name string
	structure.Coords
}

// Chain returns a chain with the given identifier.
// If such a chain does not exist, nil is returned.
func (e *Entry) Chain(ident byte) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// OneChain returns a single chain in the PDB file. If there is more than one
// chain, OneChain will panic. This is convenient when you expect a PDB file to
// have only a single chain, but don't know the name.
func (e *Entry) OneChain() *Chain {
	if len(e.Chains) != 1 {
		panic(fmt.Sprintf("OneChain can only be called on PDB entries with "+
			"ONE chain. But the '%s' PDB entry has %d chains.",
			e.Name, len(e.Chains)))
	}
	return e.Chains[0]
}

// String returns a summary line for every chain.
func (e *Entry) String() string {
	lines := make([]string, 0, len(e.Chains))
	for _, chain := range e.Chains {
		lines = append(lines, chain.String())
	}
	return strings.Join(lines, "\n")
}

// ResidueRange returns the smallest and largest residue sequence numbers in
// the chain's ATOM records (first model). Both are 0 if there are none.
func (c *Chain) ResidueRange() (start, end int) {
	if len(c.Models) == 0 || len(c.Models[0].Residues) == 0 {
		return 0, 0
	}
	start = c.Models[0].Residues[0].SequenceNum
	end = start
	for _, r := range c.Models[0].Residues {
		if r.SequenceNum < start {
			start = r.SequenceNum
		}
		if r.SequenceNum > end {
			end = r.SequenceNum
		}
	}
	return start, end
}

// AtomSequence returns the single letter residues of the chain in ATOM record
// order (first model). This is useful for files without SEQRES records.
func (c *Chain) AtomSequence() []seq.Residue {
	if len(c.Models) == 0 {
		return nil
	}
	rs := make([]seq.Residue, len(c.Models[0].Residues))
	for i, r := range c.Models[0].Residues {
		rs[i] = getAmino(r.Name)
	}
	return rs
}

// CaAtoms returns all alpha-carbon atoms in the chain. If there is more than
// one model, only the first model is used.
func (c *Chain) CaAtoms() []structure.Coords {
	if len(c.Models) == 0 {
		return nil
	}
	cas := make([]structure.Coords, 0, len(c.Models[0].Residues))
	for _, r := range c.Models[0].Residues {
		for _, atom := range r.Atoms {
			if atom.Name == "CA" {
				cas = append(cas, atom.Coords)
			}
		}
	}
	return cas
}

// String returns a FASTA-like summary of this chain.
func (c *Chain) String() string {
	start, end := c.ResidueRange()
	return strings.TrimSpace(
		fmt.Sprintf("> Chain %c (%d, %d) :: length %d\n%s",
			c.Ident, start, end, len(c.Sequence), string(c.Sequence)))
}
