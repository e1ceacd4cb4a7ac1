package pdb

import (
	"strconv"
	"strings"
)

// seqresResidueStart is the byte offset in a SEQRES record where the list of
// residue names begins.
const seqresResidueStart = 19

// Record is a PDB file as an ordered list of lines. Line terminators are not
// stored, so String reproduces the input to ParseRecord byte for byte.
//
// A Record should be treated as immutable. Methods that derive a new
// structure return a fresh Record and never touch the receiver's lines.
type Record struct {
	lines []string
}

// ParseRecord splits PDB text into lines.
func ParseRecord(text string) Record {
	return Record{lines: strings.Split(text, "\n")}
}

// Len returns the number of lines in the record.
func (r Record) Len() int {
	return len(r.lines)
}

// Line returns the i'th line (without its terminator).
func (r Record) Line(i int) string {
	return r.lines[i]
}

// Lines returns a copy of all lines in the record.
func (r Record) Lines() []string {
	lines := make([]string, len(r.lines))
	copy(lines, r.lines)
	return lines
}

// String joins the lines of the record back into PDB text.
func (r Record) String() string {
	return strings.Join(r.lines, "\n")
}

// SeqresResidues returns the residue names listed in every SEQRES record, in
// file order. Duplicates are kept: there is one entry per residue occurrence.
// Records too short to hold any residue contribute nothing.
func (r Record) SeqresResidues() []string {
	var residues []string
	for _, line := range r.lines {
		if recordName(line) != "SEQRES" || len(line) <= seqresResidueStart {
			continue
		}
		residues = append(residues, strings.Fields(line[seqresResidueStart:])...)
	}
	return residues
}

// recordName returns the record name in columns 1-6, with surrounding
// whitespace removed.
func recordName(line string) string {
	return cols(line, 1, 6)
}

// cols returns the text in the 1-based inclusive column range [start, end]
// with whitespace trimmed. Columns past the end of the line read as empty,
// so short lines never cause an out of range access.
func cols(line string, start, end int) string {
	rs, re := start-1, end
	if rs >= len(line) || rs < 0 {
		return ""
	}
	if re > len(line) {
		re = len(line)
	}
	if re < rs {
		return ""
	}
	return strings.TrimSpace(line[rs:re])
}

// at returns the byte in the 1-based column given, or 0 if the line is too
// short.
func at(line string, column int) byte {
	i := column - 1
	if i < 0 || i >= len(line) {
		return 0
	}
	return line[i]
}

func atoi(line string, start, end int) (int, error) {
	return strconv.Atoi(cols(line, start, end))
}

func atof(line string, start, end int) (float64, error) {
	return strconv.ParseFloat(cols(line, start, end), 64)
}
