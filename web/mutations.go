package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/TuftsBCB/mutview/cbio"
	"github.com/TuftsBCB/mutview/plot"
)

type mutationsPage struct {
	Cohorts []cbio.Cohort
	Cohort  string
	State   *mutationState
}

func (s *Server) handleMutations(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.get(w, r).getMutations()
	p := mutationsPage{Cohorts: cbio.Cohorts, Cohort: cbio.Cohorts[0].Name, State: st}
	if st != nil {
		p.Cohort = st.Cohort
	}
	s.render(w, "mutations.html", "Mutations", p)
}

// handleMutationsAction queries cBioPortal for the selected cohort and keeps
// the top ranked mutations for the table and the chart.
func (s *Server) handleMutationsAction(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("cohort")
	st := &mutationState{Cohort: name}

	cohort, err := cbio.LookupCohort(name)
	if err != nil {
		st.Error = err.Error()
	} else {
		muts, err := s.portal().CohortMutations(r.Context(), cohort)
		if err != nil {
			slog.Error("web: fetching mutations failed",
				"cohort", name, "error", err)
			st.Error = fmt.Sprintf("Failed to fetch mutations: %s", err)
		} else {
			st.Total = len(muts)
			st.Top = cbio.Top(muts, s.conf.CBioPortal.TopN)
			slog.Info("web: mutations ranked", "cohort", name,
				"total", st.Total, "shown", len(st.Top))
		}
	}
	sess.setMutations(st)

	s.render(w, "mutations.html", "Mutations",
		mutationsPage{Cohorts: cbio.Cohorts, Cohort: name, State: st})
}

func (s *Server) handleMutationsChart(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.lookup(r)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	st := sess.getMutations()
	if st == nil {
		http.NotFound(w, r)
		return
	}
	writeChart(w, r, func(buf *strings.Builder) error {
		return plot.Mutations(buf, st.Top, s.theme())
	})
}
