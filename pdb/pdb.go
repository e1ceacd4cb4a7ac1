package pdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/TuftsBCB/seq"
)

type pdbParser struct {
	entry    *Entry
	curModel int
	line     string
	seqres   map[byte][]string
}

// ReadFile reads a PDB file into a Record. If the file name ends with ".gz",
// gzip decompression will be used.
func ReadFile(fileName string) (Record, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fileName) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Record{}, err
		}
		defer gz.Close()
		reader = gz
	}

	text, err := io.ReadAll(reader)
	if err != nil {
		return Record{}, err
	}
	return ParseRecord(string(text)), nil
}

// Read parses PDB text from r into an Entry. The name is used in error
// messages and as a fallback for the ID code when the file has no HEADER
// record.
//
// If no chains could be found, an error is returned.
func Read(r io.Reader, name string) (*Entry, error) {
	entry := &Entry{
		Name:   name,
		Chains: make([]*Chain, 0),
	}
	parser := pdbParser{
		entry:    entry,
		curModel: 1,
		seqres:   make(map[byte][]string, 2),
	}

	// Note that it is imperative that we preserve the order of ATOM records
	// as we read them.
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1000), 1<<20)
	for scanner.Scan() {
		parser.line = strings.TrimRight(scanner.Text(), "\r")
		if err := parser.parseLine(); err != nil {
			return nil, fmt.Errorf("%s: %s", name, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, chain := range entry.Chains {
		for _, r := range parser.seqres[chain.Ident] {
			chain.Sequence = append(chain.Sequence, getAmino(r))
		}
	}

	// If we didn't pick up any chains, this probably isn't a valid PDB file.
	if len(entry.Chains) == 0 {
		return nil, fmt.Errorf("'%s' does not appear to be a valid PDB file",
			name)
	}

	// If we couldn't find an Id code, inspect the base name.
	if len(entry.IdCode) == 0 {
		base := path.Base(name)
		switch {
		case len(base) >= 7 && base[0:3] == "pdb":
			entry.IdCode = base[3:7]
		case strings.HasPrefix(base, "AF-"):
			entry.IdCode = strings.SplitN(base[3:], "-", 2)[0]
		}
	}
	return entry, nil
}

// ParseEntry is a convenience for reading an Entry from a Record.
func (r Record) ParseEntry(name string) (*Entry, error) {
	return Read(strings.NewReader(r.String()), name)
}

func (p *pdbParser) parseLine() error {
	var err error

	switch recordName(p.line) {
	case "HEADER":
		p.entry.IdCode = cols(p.line, 63, 66)
	case "MODEL":
		p.curModel, err = atoi(p.line, 11, 14)
		if err != nil {
			return fmt.Errorf("bad MODEL record: %s", err)
		}
	case "SEQRES":
		p.parseSeqres()
	case "ATOM":
		return p.parseAtom()
	}
	return nil
}

// parseSeqres collects the residue names of a SEQRES record. They are
// translated once all records have been read.
//
// N.B. This assumes that the SEQRES records are in order in the PDB file.
func (p *pdbParser) parseSeqres() {
	chain := p.getChain(at(p.line, 12))
	for c := 20; c <= 68; c += 4 {
		res := cols(p.line, c, c+2)
		if len(res) == 0 {
			break
		}
		p.seqres[chain.Ident] = append(p.seqres[chain.Ident], res)
	}
}

func (p *pdbParser) parseAtom() error {
	seqNum, err := atoi(p.line, 23, 26)
	if err != nil {
		return fmt.Errorf("bad residue sequence number in ATOM record: %s", err)
	}
	atom := Atom{Name: cols(p.line, 13, 16)}
	if atom.X, err = atof(p.line, 31, 38); err != nil {
		return fmt.Errorf("bad x coordinate in ATOM record: %s", err)
	}
	if atom.Y, err = atof(p.line, 39, 46); err != nil {
		return fmt.Errorf("bad y coordinate in ATOM record: %s", err)
	}
	if atom.Z, err = atof(p.line, 47, 54); err != nil {
		return fmt.Errorf("bad z coordinate in ATOM record: %s", err)
	}

	residue := p.getResidue(at(p.line, 22), cols(p.line, 18, 20), seqNum)
	residue.Atoms = append(residue.Atoms, atom)
	return nil
}

func (p *pdbParser) getChain(ident byte) *Chain {
	if ident == ' ' || ident == 0 {
		ident = '_'
	}
	if chain := p.entry.Chain(ident); chain != nil {
		return chain
	}
	chain := &Chain{
		Entry:    p.entry,
		Ident:    ident,
		Sequence: make([]seq.Residue, 0, 25),
		Models:   make([]*Model, 0, 1),
	}
	p.entry.Chains = append(p.entry.Chains, chain)
	return chain
}

func (p *pdbParser) getModel(ident byte) *Model {
	chain := p.getChain(ident)
	for _, model := range chain.Models {
		if model.Num == p.curModel {
			return model
		}
	}
	model := &Model{
		Num:      p.curModel,
		Residues: make([]*Residue, 0, 25),
	}
	chain.Models = append(chain.Models, model)
	return model
}

// getResidue returns the residue for the sequence number given in the current
// model of a chain. ATOM records of one residue are contiguous, so only the
// most recent residue needs to be checked.
func (p *pdbParser) getResidue(ident byte, name string, seqNum int) *Residue {
	model := p.getModel(ident)
	if n := len(model.Residues); n > 0 && model.Residues[n-1].SequenceNum == seqNum {
		return model.Residues[n-1]
	}
	residue := &Residue{
		Name:        name,
		SequenceNum: seqNum,
		Atoms:       make([]Atom, 0, 4),
	}
	model.Residues = append(model.Residues, residue)
	return residue
}
