package web

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/TuftsBCB/mutview/config"
)

const testPDB = `HEADER    HYDROLASE                               01-JAN-00   1ABC
SEQRES   1 A    3  MET SER GLY
ATOM      1 N    MET A 233       1.000   2.000   3.000  1.00 90.00           C
ATOM      2 CA   MET A 233       2.000   2.500   3.500  1.00 90.00           C
ATOM      3 N    SER A 234       3.000   4.000   1.000  1.00 90.00           C
ATOM      4 CA   SER A 234       4.100   4.200   1.300  1.00 90.00           C
ATOM      5 CA   GLY A 235       6.000   1.000   2.000  1.00 90.00           C
TER
END
`

const testMutations = `[
  {"gene": {"hugoGeneSymbol": "TP53"}, "sampleId": "TCGA-01",
   "mutationType": "Missense_Mutation", "proteinChange": "R175H",
   "tumorAltCount": 10},
  {"gene": {"hugoGeneSymbol": "KRAS"}, "sampleId": "TCGA-02",
   "mutationType": "Missense_Mutation", "proteinChange": "G12D"},
  {"gene": {"hugoGeneSymbol": "PIK3CA"}, "sampleId": "TCGA-03",
   "mutationType": "Missense_Mutation", "proteinChange": "H1047R",
   "tumorAltCount": 30}
]`

// remotes stands in for AlphaFold, RCSB and cBioPortal. AlphaFold only has
// Q8N6V4, RCSB only has 1ABC.
func remotes(t *testing.T, cbioStatus int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/af/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/af/Q8N6V4.pdb" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, testPDB)
	})
	mux.HandleFunc("/pdb/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pdb/1ABC.pdb" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, testPDB)
	})
	mux.HandleFunc("/api/molecular-profiles/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(cbioStatus)
		if cbioStatus != http.StatusOK {
			io.WriteString(w, `{"message": "service unavailable"}`)
			return
		}
		io.WriteString(w, testMutations)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newTestClient(t *testing.T, cbioStatus int) *testClient {
	remote := remotes(t, cbioStatus)
	conf := config.Default()
	conf.Structure.AlphaFoldURL = remote.URL + "/af/{id}.pdb"
	conf.Structure.PDBURL = remote.URL + "/pdb/{id}.pdb"
	conf.CBioPortal.BaseURL = remote.URL + "/api"

	srv, err := New(conf)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &testClient{
		t:    t,
		base: ts.URL,
		client: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}
}

func (c *testClient) do(req *http.Request) (int, string) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func (c *testClient) get(path string) (int, string) {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		c.t.Fatal(err)
	}
	return c.do(req)
}

func (c *testClient) post(path string, form url.Values) (int, string) {
	req, err := http.NewRequest(http.MethodPost, c.base+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func expectContains(t *testing.T, body string, wants ...string) {
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Fatalf("Expected '%s' in response:\n%s", want, body)
		}
	}
}

func TestHealthz(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	status, body := c.get("/healthz")
	if status != http.StatusOK || body != "ok\n" {
		t.Fatalf("Expected 200 'ok' but got %d %q.", status, body)
	}
}

func TestRootRedirect(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	status, body := c.get("/")
	if status != http.StatusOK {
		t.Fatalf("Expected 200 after redirect but got %d.", status)
	}
	expectContains(t, body, `name="identifier"`, DefaultIdentifier)
}

func TestStructureNormal(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	status, body := c.post("/structure", url.Values{
		"identifier": {"Q8N6V4"},
		"action":     {"normal"},
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 but got %d.", status)
	}
	expectContains(t, body, "viewer-", "SER A 234", "(AlphaFold)",
		"/structure/chart.svg", "233-235")

	status, svg := c.get("/structure/chart.svg")
	if status != http.StatusOK || !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("Expected an SVG chart but got %d.", status)
	}

	status, fa := c.get("/structure/sequence.fasta")
	if status != http.StatusOK {
		t.Fatalf("Expected 200 but got %d.", status)
	}
	if !strings.HasPrefix(fa, ">Q8N6V4:A\nMSG") {
		t.Fatalf("Unexpected FASTA:\n%s", fa)
	}

	// The page keeps showing the structure on a plain GET.
	_, body = c.get("/structure")
	expectContains(t, body, "viewer-")
}

func TestStructureFallback(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	_, body := c.post("/structure", url.Values{
		"identifier": {"1ABC"},
		"action":     {"normal"},
	})
	expectContains(t, body, "viewer-", "(PDB)", "AlphaFold has no model for 1ABC")
}

func TestStructureMutated(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	_, body := c.post("/structure", url.Values{
		"identifier": {"Q8N6V4"},
		"mutation1":  {"S234C"},
		"action":     {"mutated1"},
	})
	expectContains(t, body, "CYS A 234", "Applied SER234CYS to 2 ATOM records.",
		"RMSD to unmutated")
	if strings.Contains(body, "SER A 234") {
		t.Fatalf("Expected SER 234 to be replaced:\n%s", body)
	}
}

func TestStructureSecondMutation(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	_, body := c.post("/structure", url.Values{
		"identifier": {"Q8N6V4"},
		"mutation1":  {"S234C"},
		"mutation2":  {"A:G235W"},
		"action":     {"mutated2"},
	})
	expectContains(t, body, "TRP A 235", "SER A 234")
}

func TestStructureUnmatchedMutation(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	_, body := c.post("/structure", url.Values{
		"identifier": {"Q8N6V4"},
		"mutation1":  {"W999A"},
		"action":     {"mutated1"},
	})
	expectContains(t, body, "TRP999ALA matched no ATOM records", "viewer-",
		"SER A 234")
}

func TestStructureInvalidMutation(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	_, body := c.post("/structure", url.Values{
		"identifier": {"Q8N6V4"},
		"mutation1":  {"S23.4C"},
		"action":     {"mutated1"},
	})
	expectContains(t, body, "invalid mutation")
	if strings.Contains(body, "viewer-") {
		t.Fatalf("Expected no viewer payload for an invalid mutation.")
	}
}

func TestStructureEmptyMutationIsNoop(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	c.post("/structure", url.Values{"identifier": {"Q8N6V4"}, "action": {"normal"}})

	_, body := c.post("/structure", url.Values{
		"identifier": {"Q8N6V4"},
		"action":     {"mutated2"},
	})
	expectContains(t, body, "SER A 234")
	if strings.Contains(body, "Applied") {
		t.Fatalf("Expected no mutation to be applied.")
	}
}

func TestStructureNotFound(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	_, body := c.post("/structure", url.Values{
		"identifier": {"MISSING"},
		"action":     {"normal"},
	})
	expectContains(t, body, "No structure found for MISSING in AlphaFold or PDB.")
	if strings.Contains(body, "viewer-") {
		t.Fatalf("Expected no viewer payload for a missing structure.")
	}

	status, _ := c.get("/structure/chart.svg")
	if status != http.StatusNotFound {
		t.Fatalf("Expected 404 for the chart but got %d.", status)
	}
}

func TestStructureBadAction(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	status, _ := c.post("/structure", url.Values{"action": {"explode"}})
	if status != http.StatusBadRequest {
		t.Fatalf("Expected 400 but got %d.", status)
	}
}

func TestDownloadsWithoutSession(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	for _, path := range []string{
		"/structure/chart.svg",
		"/structure/sequence.fasta",
		"/mutations/chart.svg",
	} {
		if status, _ := c.get(path); status != http.StatusNotFound {
			t.Fatalf("Expected 404 for %s but got %d.", path, status)
		}
	}
}

func TestMutations(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	status, body := c.get("/mutations")
	if status != http.StatusOK {
		t.Fatalf("Expected 200 but got %d.", status)
	}
	expectContains(t, body, "Adrenocortical Carcinoma", "Uterine Corpus")

	_, body = c.post("/mutations", url.Values{"cohort": {"Breast Cancer"}})
	expectContains(t, body, "Top 3 of 3 mutations in Breast Cancer.", "N/A")

	// Ranked by alt count: PIK3CA (30), TP53 (10), KRAS (missing).
	pik, tp, kras := strings.Index(body, "PIK3CA"), strings.Index(body, "TP53"),
		strings.Index(body, "KRAS")
	if !(pik < tp && tp < kras) {
		t.Fatalf("Expected rows ordered PIK3CA, TP53, KRAS but got "+
			"positions %d, %d, %d.", pik, tp, kras)
	}

	status, svg := c.get("/mutations/chart.svg")
	if status != http.StatusOK || !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("Expected an SVG chart but got %d.", status)
	}
}

func TestMutationsRemoteFailure(t *testing.T) {
	c := newTestClient(t, http.StatusInternalServerError)
	_, body := c.post("/mutations", url.Values{"cohort": {"Breast Cancer"}})
	expectContains(t, body, "Failed to fetch mutations", "service unavailable",
		"No data found for Breast Cancer.")

	status, _ := c.get("/mutations/chart.svg")
	if status != http.StatusNotFound {
		t.Fatalf("Expected 404 for an empty chart but got %d.", status)
	}
}

func TestMutationsUnknownCohort(t *testing.T) {
	c := newTestClient(t, http.StatusOK)
	_, body := c.post("/mutations", url.Values{"cohort": {"Moon Cancer"}})
	expectContains(t, body, "unknown cohort", fmt.Sprintf("No data found for %s.", "Moon Cancer"))
}
