package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/mutview/fasta"
	"github.com/TuftsBCB/mutview/fetch"
	"github.com/TuftsBCB/mutview/pdb"
	"github.com/TuftsBCB/mutview/plot"
	"github.com/TuftsBCB/mutview/viewer"
)

// structureForm is what the user typed into the structure page.
type structureForm struct {
	Identifier string
	Mutation1  string
	Mutation2  string
}

type structurePage struct {
	Form  structureForm
	State *structureState
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	st := sess.getStructure()

	form := structureForm{Identifier: DefaultIdentifier}
	if st != nil {
		form.Identifier = st.Identifier
	}
	s.render(w, "structure.html", "Structure", structurePage{Form: form, State: st})
}

// handleStructureAction fetches a structure and, for the mutated actions,
// applies the mutations typed into the corresponding input.
func (s *Server) handleStructureAction(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := structureForm{
		Identifier: strings.TrimSpace(r.PostFormValue("identifier")),
		Mutation1:  strings.TrimSpace(r.PostFormValue("mutation1")),
		Mutation2:  strings.TrimSpace(r.PostFormValue("mutation2")),
	}
	if len(form.Identifier) == 0 {
		form.Identifier = DefaultIdentifier
	}

	action := r.PostFormValue("action")
	var tokens string
	switch action {
	case "", "normal":
	case "mutated1":
		tokens = form.Mutation1
	case "mutated2":
		tokens = form.Mutation2
	default:
		http.Error(w, fmt.Sprintf("unknown action '%s'", action),
			http.StatusBadRequest)
		return
	}

	// A mutated action with nothing to apply does nothing.
	if strings.HasPrefix(action, "mutated") && len(tokens) == 0 {
		s.render(w, "structure.html", "Structure",
			structurePage{Form: form, State: sess.getStructure()})
		return
	}

	st := s.loadStructure(r, form.Identifier, tokens)
	sess.setStructure(st)
	s.render(w, "structure.html", "Structure", structurePage{Form: form, State: st})
}

// loadStructure runs the structure pipeline: fetch, mutate, tally and build
// the viewer payload. Failures are reported in the returned state.
func (s *Server) loadStructure(
	r *http.Request,
	ident, tokens string,
) *structureState {
	st := &structureState{Identifier: ident, Mutations: tokens}

	muts, err := pdb.ParseMutations(strings.FieldsFunc(tokens, isTokenSep))
	if err != nil {
		st.Error = err.Error()
		return st
	}

	res, err := s.fetcher.Fetch(r.Context(), ident)
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		slog.Warn("web: structure not found", "identifier", ident)
		st.Warnings = append(st.Warnings, fmt.Sprintf(
			"No structure found for %s in %s or %s.",
			ident, s.fetcher.Primary.Name, s.fetcher.Fallback.Name))
		return st
	case err != nil:
		slog.Error("web: fetching structure failed",
			"identifier", ident, "error", err)
		st.Error = fmt.Sprintf("Could not fetch %s: %s", ident, err)
		return st
	}
	st.Source = res.Source
	if res.PrimaryMissed {
		st.Notes = append(st.Notes, fmt.Sprintf(
			"%s has no model for %s; showing the %s entry.",
			s.fetcher.Primary.Name, ident, res.Source))
	}

	baseline := pdb.ParseRecord(res.Text)
	shown := baseline
	if len(muts) > 0 {
		var rep pdb.Report
		shown, rep = baseline.Mutate(muts)
		for i, m := range rep.Mutations {
			if rep.Matches[i] == 0 {
				st.Warnings = append(st.Warnings, fmt.Sprintf(
					"%s matched no ATOM records; the structure is unchanged "+
						"by it.", m))
				continue
			}
			st.Notes = append(st.Notes, fmt.Sprintf(
				"Applied %s to %d ATOM records.", m, rep.Matches[i]))
		}
		slog.Info("web: mutations applied", "identifier", ident,
			"mutations", len(muts), "unmatched", len(rep.Unmatched()))
	}

	st.Tally = pdb.Tally(shown.SeqresResidues())
	if entry, err := shown.ParseEntry(ident); err != nil {
		slog.Warn("web: no chain summary", "identifier", ident, "error", err)
	} else {
		st.Entry = entry
		if shown.String() != baseline.String() {
			st.RMSD = compareChains(baseline, entry, ident)
		}
	}

	payload, err := viewer.Render(shown.String(), s.viewerOptions())
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Payload = payload
	return st
}

// compareChains computes the RMSD of every chain of the mutated entry against
// the baseline structure. Residue renaming leaves coordinates untouched, so
// every value is expected to be 0.
func compareChains(baseline pdb.Record, mutated *pdb.Entry, ident string) map[byte]float64 {
	base, err := baseline.ParseEntry(ident)
	if err != nil {
		return nil
	}
	rmsds, err := pdb.RMSDEntries(base, mutated)
	if err != nil {
		slog.Debug("web: RMSD not available", "identifier", ident, "error", err)
		return nil
	}
	return rmsds
}

func isTokenSep(r rune) bool {
	return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func (s *Server) loadedStructure(w http.ResponseWriter, r *http.Request) *structureState {
	sess := s.sessions.lookup(r)
	if sess == nil {
		http.NotFound(w, r)
		return nil
	}
	st := sess.getStructure()
	if st == nil || st.Payload == "" {
		http.NotFound(w, r)
		return nil
	}
	return st
}

func (s *Server) handleStructureChart(w http.ResponseWriter, r *http.Request) {
	st := s.loadedStructure(w, r)
	if st == nil {
		return
	}
	writeChart(w, r, func(buf *strings.Builder) error {
		return plot.AminoAcids(buf, st.Tally, s.theme())
	})
}

// handleSequence downloads the chain sequences of the current structure in
// FASTA format. Chains without SEQRES records use the residues of their ATOM
// records.
func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	st := s.loadedStructure(w, r)
	if st == nil {
		return
	}
	if st.Entry == nil {
		http.NotFound(w, r)
		return
	}

	seqs := make([]seq.Sequence, 0, len(st.Entry.Chains))
	for _, chain := range st.Entry.Chains {
		residues := chain.Sequence
		if len(residues) == 0 {
			residues = chain.AtomSequence()
		}
		seqs = append(seqs, seq.Sequence{
			Name:     fmt.Sprintf("%s:%c", st.Identifier, chain.Ident),
			Residues: residues,
		})
	}

	name := path.Base(st.Identifier)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", name+".fasta"))
	if err := fasta.NewWriter(w).WriteAll(seqs); err != nil {
		slog.Error("web: writing FASTA failed", "error", err)
	}
}

func writeChart(
	w http.ResponseWriter,
	r *http.Request,
	draw func(buf *strings.Builder) error,
) {
	buf := new(strings.Builder)
	if err := draw(buf); err != nil {
		if errors.Is(err, plot.ErrNoData) {
			http.NotFound(w, r)
			return
		}
		slog.Error("web: rendering chart failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(buf.String()))
}
