package pdb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMutation is returned (wrapped) when a mutation token cannot be
// parsed.
var ErrInvalidMutation = errors.New("invalid mutation token")

// Mutation describes a single point substitution: the residue From at
// sequence number Position becomes To. Both residue names are three letter
// codes.
//
// If Chain is 0, the mutation applies to matching residues in every chain.
// Otherwise only ATOM records of that chain are considered.
type Mutation struct {
	Chain    byte
	From     string
	Position int
	To       string
}

// ParseMutation parses a token like "S234C", "SER234CYS" or "A:S234C".
//
// The original and new residues may each be written with one or three
// letters; one letter codes are translated to three letter names. The
// position must be an integer (it may be negative, as PDB sequence numbers
// sometimes are). An optional single character chain identifier followed by
// a colon restricts the mutation to that chain.
func ParseMutation(token string) (Mutation, error) {
	invalid := func(reason string) (Mutation, error) {
		return Mutation{}, fmt.Errorf("%w '%s': %s",
			ErrInvalidMutation, token, reason)
	}

	var m Mutation
	s := strings.TrimSpace(token)
	if len(s) >= 2 && s[1] == ':' {
		m.Chain = s[0]
		s = s[2:]
	}
	if len(s) == 0 {
		return invalid("empty")
	}

	// Find the numeric position between the two residue codes.
	start := 0
	for start < len(s) && isLetter(s[start]) {
		start++
	}
	end := start
	if end < len(s) && s[end] == '-' {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	from, pos, to := s[:start], s[start:end], s[end:]

	var err error
	if m.Position, err = strconv.Atoi(pos); err != nil {
		return invalid(fmt.Sprintf("position '%s' is not an integer", pos))
	}
	var ok bool
	if m.From, ok = ThreeLetter(from); !ok {
		return invalid(fmt.Sprintf("unknown original residue '%s'", from))
	}
	if m.To, ok = ThreeLetter(to); !ok {
		return invalid(fmt.Sprintf("unknown new residue '%s'", to))
	}
	return m, nil
}

// ParseMutations parses each token with ParseMutation. Empty tokens are
// skipped. The first invalid token stops parsing.
func ParseMutations(tokens []string) ([]Mutation, error) {
	muts := make([]Mutation, 0, len(tokens))
	for _, tok := range tokens {
		if len(strings.TrimSpace(tok)) == 0 {
			continue
		}
		m, err := ParseMutation(tok)
		if err != nil {
			return nil, err
		}
		muts = append(muts, m)
	}
	return muts, nil
}

// String returns the mutation in three letter token form, e.g., "SER234CYS"
// or "A:SER234CYS".
func (m Mutation) String() string {
	if m.Chain != 0 {
		return fmt.Sprintf("%c:%s%d%s", m.Chain, m.From, m.Position, m.To)
	}
	return fmt.Sprintf("%s%d%s", m.From, m.Position, m.To)
}

func (m Mutation) matches(chain byte, residue string, seqNum int) bool {
	if m.Chain != 0 && m.Chain != chain {
		return false
	}
	return m.Position == seqNum && m.From == residue
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Report describes the effect of applying a list of mutations to a Record.
// Matches[i] is the number of ATOM records that mutation i matched.
type Report struct {
	Mutations []Mutation
	Matches   []int
}

// Unmatched returns the mutations that did not match any ATOM record.
// Such mutations leave the structure unchanged; this is not an error.
func (rep Report) Unmatched() []Mutation {
	var none []Mutation
	for i, n := range rep.Matches {
		if n == 0 {
			none = append(none, rep.Mutations[i])
		}
	}
	return none
}

// Changed returns true if at least one ATOM record was rewritten.
func (rep Report) Changed() bool {
	for _, n := range rep.Matches {
		if n > 0 {
			return true
		}
	}
	return false
}

// Mutate returns a new Record in which the residue name of every ATOM record
// matching one of the mutations given is replaced by that mutation's new
// residue. The receiver is not modified.
//
// A record matches a mutation when its residue sequence number (columns
// 23-26) equals the mutation's position and its residue name (columns 18-20)
// equals the mutation's original residue, and, if the mutation names a chain,
// its chain identifier (column 22) is that chain. Every mutation is compared
// against the residue name as it appears in the input, so when several
// mutations match the same record the last one wins.
//
// All other lines, including ATOM records that are too short or lack an
// integer sequence number, are copied unchanged.
func (r Record) Mutate(muts []Mutation) (Record, Report) {
	rep := Report{
		Mutations: muts,
		Matches:   make([]int, len(muts)),
	}
	lines := make([]string, len(r.lines))
	for i, line := range r.lines {
		lines[i] = line
		if recordName(line) != "ATOM" || len(line) < 26 {
			continue
		}
		residue := cols(line, 18, 20)
		chain := at(line, 22)
		seqNum, err := atoi(line, 23, 26)
		if err != nil {
			continue
		}
		for j, m := range muts {
			if m.matches(chain, residue, seqNum) {
				lines[i] = line[:17] + fmt.Sprintf("%3s", m.To) + line[20:]
				rep.Matches[j]++
			}
		}
	}
	return Record{lines: lines}, rep
}
