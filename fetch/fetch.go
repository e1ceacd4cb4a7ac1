// Package fetch retrieves structures in PDB text format from a primary source
// (AlphaFold models by UniProt accession) with a secondary source (RCSB PDB
// entries) as fallback.
package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultAlphaFoldURL is the URL template for AlphaFold model files.
	DefaultAlphaFoldURL = "https://alphafold.ebi.ac.uk/files/AF-{id}-F1-model_v4.pdb"

	// DefaultPDBURL is the URL template for RCSB PDB entries.
	DefaultPDBURL = "https://files.rcsb.org/view/{id}.pdb"

	// DefaultMaxBytes limits the size of a downloaded structure.
	DefaultMaxBytes = 64 << 20
)

var (
	// ErrNotFound is returned when no source has a structure for the
	// identifier.
	ErrNotFound = errors.New("structure not found")

	// ErrInvalidIdentifier is returned for identifiers that are neither a URL
	// nor a plain accession or PDB code.
	ErrInvalidIdentifier = errors.New("invalid structure identifier")

	validIdent = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Error is returned when a source could not be reached at all, as opposed to
// a source answering that it does not have the structure.
type Error struct {
	Source string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Source, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Source is a place structures can be fetched from. URL is a template in
// which "{id}" is replaced by the identifier.
type Source struct {
	Name string
	URL  string
}

// Result is a fetched structure.
type Result struct {
	// Identifier is the (trimmed) identifier that was requested.
	Identifier string

	// Text is the structure in PDB text format.
	Text string

	// Source and URL say where Text came from.
	Source string
	URL    string

	// PrimaryMissed is true when the primary source did not have the
	// structure, even if the fallback did.
	PrimaryMissed bool
}

// Fetcher fetches structures. The zero value is not usable; use New.
type Fetcher struct {
	Primary  Source
	Fallback Source

	// MaxBytes limits the size of a response body. Larger structures are
	// rejected with an error.
	MaxBytes int64

	client *http.Client
}

// New returns a Fetcher using AlphaFold as the primary source and RCSB as the
// fallback. If client is nil, an http.Client with the timeout given is used.
func New(client *http.Client, timeout time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{
		Primary:  Source{Name: "AlphaFold", URL: DefaultAlphaFoldURL},
		Fallback: Source{Name: "PDB", URL: DefaultPDBURL},
		MaxBytes: DefaultMaxBytes,
		client:   client,
	}
}

// Fetch resolves an identifier to PDB text.
//
// If the identifier starts with "http://" or "https://", it is fetched as is
// and there is no fallback. Otherwise it is substituted into the primary
// source's URL and, if that source does not have it, the fallback source's.
//
// When neither source has the structure, the error returned wraps ErrNotFound
// and the Result's PrimaryMissed is true. A source that cannot be reached
// returns an *Error.
func (f *Fetcher) Fetch(ctx context.Context, ident string) (Result, error) {
	ident = strings.TrimSpace(ident)
	res := Result{Identifier: ident}

	if isURL(ident) {
		text, found, err := f.get(ctx, "URL", ident)
		if err != nil {
			return res, err
		}
		if !found {
			res.PrimaryMissed = true
			return res, fmt.Errorf("%w at %s", ErrNotFound, ident)
		}
		res.Text, res.Source, res.URL = text, "URL", ident
		return res, nil
	}
	if !validIdent.MatchString(ident) {
		return res, fmt.Errorf("%w: '%s'", ErrInvalidIdentifier, ident)
	}

	for i, src := range []Source{f.Primary, f.Fallback} {
		url := strings.ReplaceAll(src.URL, "{id}", ident)
		text, found, err := f.get(ctx, src.Name, url)
		if err != nil {
			return res, err
		}
		if found {
			res.Text, res.Source, res.URL = text, src.Name, url
			return res, nil
		}
		if i == 0 {
			res.PrimaryMissed = true
			slog.Warn("fetch: not found at primary source, trying fallback",
				"identifier", ident, "source", src.Name, "fallback",
				f.Fallback.Name)
		}
	}
	return res, fmt.Errorf("%w for %s in both %s and %s",
		ErrNotFound, ident, f.Primary.Name, f.Fallback.Name)
}

// get downloads url. A non-200 response is reported as not found rather than
// as an error.
func (f *Fetcher) get(
	ctx context.Context,
	source, url string,
) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, &Error{Source: source, URL: url, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", false, &Error{Source: source, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("fetch: source answered without a structure",
			"source", source, "url", url, "status", resp.Status)
		return "", false, nil
	}

	var body io.Reader = resp.Body
	if path.Ext(url) == ".gz" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", false, &Error{Source: source, URL: url, Err: err}
		}
		defer gz.Close()
		body = gz
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return "", false, &Error{Source: source, URL: url, Err: err}
	}
	if int64(len(data)) > limit {
		return "", false, &Error{Source: source, URL: url,
			Err: fmt.Errorf("structure larger than %d bytes", limit)}
	}
	return string(data), true, nil
}

func isURL(ident string) bool {
	return strings.HasPrefix(ident, "http://") ||
		strings.HasPrefix(ident, "https://")
}
