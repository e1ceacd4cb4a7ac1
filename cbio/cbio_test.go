package cbio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func intp(n int) *int {
	return &n
}

func TestTop(t *testing.T) {
	muts := []Mutation{
		{SampleID: "s1", TumorAltCount: intp(10)},
		{SampleID: "s2"},
		{SampleID: "s3", TumorAltCount: intp(30)},
		{SampleID: "s4", TumorAltCount: intp(30)},
		{SampleID: "s5", TumorAltCount: intp(5)},
	}
	top := Top(muts, DefaultTopN)

	expected := []string{"s3", "s4", "s1", "s5", "s2"}
	if len(top) != len(expected) {
		t.Fatalf("Expected %d mutations but got %d.", len(expected), len(top))
	}
	for i, id := range expected {
		if top[i].SampleID != id {
			t.Fatalf("Expected '%s' at rank %d but got '%s'.",
				id, i, top[i].SampleID)
		}
	}
	if top[4].AltCount() != 0 {
		t.Fatalf("Expected missing count to rank as 0 but got %d.",
			top[4].AltCount())
	}
	if muts[0].SampleID != "s1" {
		t.Fatalf("Top modified its input.")
	}
}

func TestTopTruncates(t *testing.T) {
	muts := make([]Mutation, 12)
	for i := range muts {
		muts[i] = Mutation{SampleID: fmt.Sprintf("s%d", i), TumorAltCount: intp(i)}
	}
	top := Top(muts, 5)
	if len(top) != 5 {
		t.Fatalf("Expected 5 mutations but got %d.", len(top))
	}
	if top[0].AltCount() != 11 || top[4].AltCount() != 7 {
		t.Fatalf("Expected counts 11..7 but got %d..%d.",
			top[0].AltCount(), top[4].AltCount())
	}
	if len(Top(nil, 5)) != 0 {
		t.Fatalf("Expected no mutations from an empty list.")
	}
}

func TestCohorts(t *testing.T) {
	if len(Cohorts) != 24 {
		t.Fatalf("Expected 24 cohorts but got %d.", len(Cohorts))
	}
	seen := make(map[string]bool)
	for _, c := range Cohorts {
		if seen[c.Name] {
			t.Fatalf("Duplicate cohort '%s'.", c.Name)
		}
		seen[c.Name] = true
	}

	c, err := LookupCohort("Breast Cancer")
	if err != nil {
		t.Fatal(err)
	}
	if c.MolecularProfileID != "brca_tcga_mutations" ||
		c.SampleListID != "brca_tcga_all" {
		t.Fatalf("Unexpected identifiers for Breast Cancer: %+v", c)
	}
	if _, err := LookupCohort("Not A Cancer"); !errors.Is(err, ErrUnknownCohort) {
		t.Fatalf("Expected ErrUnknownCohort but got %v.", err)
	}
}

const testResponse = `[
  {"gene": {"hugoGeneSymbol": "TP53", "entrezGeneId": 7157},
   "sampleId": "TCGA-01", "mutationType": "Missense_Mutation",
   "proteinChange": "R175H", "chr": "17", "startPosition": 7578406,
   "endPosition": 7578406, "referenceAllele": "C", "variantAllele": "T",
   "tumorAltCount": 42, "tumorRefCount": 17},
  {"sampleId": "TCGA-02", "mutationType": "Nonsense_Mutation",
   "proteinChange": "Q100*", "entrezGeneId": 1}
]`

func testServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/molecular-profiles/brca_tcga_mutations/mutations" {
				http.NotFound(w, r)
				return
			}
			q := r.URL.Query()
			if q.Get("sampleListId") != "brca_tcga_all" ||
				q.Get("projection") != "DETAILED" {
				http.Error(w, `{"message": "bad query"}`, http.StatusBadRequest)
				return
			}
			w.WriteHeader(status)
			fmt.Fprint(w, body)
		}))
	t.Cleanup(srv.Close)
	return srv
}

func testCohort(t *testing.T) Cohort {
	c, err := LookupCohort("Breast Cancer")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCohortMutations(t *testing.T) {
	srv := testServer(t, http.StatusOK, testResponse)
	client := NewClient(Config{BaseURL: srv.URL + "/"})

	muts, err := client.CohortMutations(context.Background(), testCohort(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(muts) != 2 {
		t.Fatalf("Expected 2 mutations but got %d.", len(muts))
	}

	m := muts[0]
	if m.Gene != "TP53" || m.ProteinChange != "R175H" || m.AltCount() != 42 ||
		m.RefCount() != 17 || m.EntrezGeneID != 7157 || m.Chromosome != "17" {
		t.Fatalf("Unexpected first mutation: %+v", m)
	}

	m = muts[1]
	if m.Gene != "N/A" {
		t.Fatalf("Expected gene 'N/A' but got '%s'.", m.Gene)
	}
	if m.TumorAltCount != nil || m.AltCount() != 0 {
		t.Fatalf("Expected a missing alt count but got %v.", m.TumorAltCount)
	}
}

func TestMutationsAPIError(t *testing.T) {
	srv := testServer(t, http.StatusInternalServerError,
		`{"message": "database unavailable"}`)
	client := NewClient(Config{BaseURL: srv.URL})

	_, err := client.CohortMutations(context.Background(), testCohort(t))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError but got %v.", err)
	}
	if apiErr.Status != http.StatusInternalServerError ||
		apiErr.Message != "database unavailable" {
		t.Fatalf("Unexpected API error: %+v", apiErr)
	}
}

func TestMutationsBadJSON(t *testing.T) {
	srv := testServer(t, http.StatusOK, `{"not": "a list"`)
	client := NewClient(Config{BaseURL: srv.URL})

	if _, err := client.CohortMutations(context.Background(), testCohort(t)); err == nil {
		t.Fatalf("Expected an error for a malformed response.")
	}
}

func TestMutationsValidation(t *testing.T) {
	body := `[{"sampleId": "TCGA-03", "tumorAltCount": 3}]`
	srv := testServer(t, http.StatusOK, body)

	lenient := NewClient(Config{BaseURL: srv.URL})
	muts, err := lenient.CohortMutations(context.Background(), testCohort(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(muts) != 1 {
		t.Fatalf("Expected 1 mutation but got %d.", len(muts))
	}

	strict := NewClient(Config{BaseURL: srv.URL, ValidateResponses: true})
	_, err = strict.CohortMutations(context.Background(), testCohort(t))
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("Expected ErrInvalidRecord but got %v.", err)
	}
}

func TestMutationsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: base})
	if _, err := client.Mutations(context.Background(), "x", "y"); err == nil {
		t.Fatalf("Expected an error for an unreachable server.")
	}
}
