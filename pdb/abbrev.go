package pdb

import (
	"strings"

	"github.com/TuftsBCB/seq"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]seq.Residue{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',

	// Residues that are not classified as "missing" and are not
	// listed in MODRES.
	"UNK": 'X', "ASX": 'X', "GLX": 'X', "DLE": 'X',

	// misc
	"ACE": 'X', "NH2": 'X',
}

// AminoOneToThree maps single letter amino acids back to their three letter
// names. Unlike AminoThreeToOne it is not derived by reversing the map, since
// several three letter names collapse to 'X'.
var AminoOneToThree = map[seq.Residue]string{
	'A': "ALA", 'R': "ARG", 'N': "ASN", 'D': "ASP", 'C': "CYS",
	'E': "GLU", 'Q': "GLN", 'G': "GLY", 'H': "HIS", 'I': "ILE",
	'L': "LEU", 'K': "LYS", 'M': "MET", 'F': "PHE", 'P': "PRO",
	'S': "SER", 'T': "THR", 'W': "TRP", 'Y': "TYR", 'V': "VAL",
	'U': "SEC", 'O': "PYL", 'X': "UNK",
}

// ThreeLetter normalizes a residue code given in either its one or three
// letter form to the three letter name used in ATOM records. It returns
// false if a one letter code is not a known amino acid or if the code has
// any other length.
func ThreeLetter(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch len(code) {
	case 1:
		three, ok := AminoOneToThree[seq.Residue(code[0])]
		return three, ok
	case 3:
		for i := 0; i < 3; i++ {
			if code[i] < 'A' || code[i] > 'Z' {
				if code[i] < '0' || code[i] > '9' {
					return "", false
				}
			}
		}
		return code, true
	}
	return "", false
}

// getAmino returns the single letter residue for a three letter name, or 'X'
// when the name is unknown.
func getAmino(threeAbbrev string) seq.Residue {
	if v, ok := AminoThreeToOne[threeAbbrev]; ok {
		return v
	}
	return 'X'
}
