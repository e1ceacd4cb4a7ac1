package cbio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public cBioPortal API.
const DefaultBaseURL = "https://www.cbioportal.org/api"

// Config holds everything needed to construct a Client.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// Timeout bounds a whole request, including reading the response.
	Timeout time.Duration

	// ValidateResponses rejects mutation records missing required fields.
	// When false, such records are passed through as is.
	ValidateResponses bool

	// HTTPClient is used if set. Otherwise a client with Timeout is built.
	HTTPClient *http.Client
}

// DefaultConfig returns a configuration for the public cBioPortal API.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 60 * time.Second,
	}
}

// Client queries cBioPortal.
type Client struct {
	conf Config
	http *http.Client
}

// NewClient builds a client. No request is made until a query method is
// called.
func NewClient(conf Config) *Client {
	if len(conf.BaseURL) == 0 {
		conf.BaseURL = DefaultBaseURL
	}
	conf.BaseURL = strings.TrimRight(conf.BaseURL, "/")
	hc := conf.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: conf.Timeout}
	}
	return &Client{conf: conf, http: hc}
}

// APIError is returned when the API answers with a non-200 status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if len(e.Message) == 0 {
		return fmt.Sprintf("cBioPortal returned status %d", e.Status)
	}
	return fmt.Sprintf("cBioPortal returned status %d: %s", e.Status, e.Message)
}

// Mutations returns all mutations in the molecular profile for the samples
// in the sample list, in the order the API returns them.
func (c *Client) Mutations(
	ctx context.Context,
	molecularProfileID, sampleListID string,
) ([]Mutation, error) {
	q := url.Values{}
	q.Set("sampleListId", sampleListID)
	q.Set("projection", "DETAILED")
	u := fmt.Sprintf("%s/molecular-profiles/%s/mutations?%s",
		c.conf.BaseURL, url.PathEscape(molecularProfileID), q.Encode())

	var raw []apiMutation
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}

	muts := make([]Mutation, 0, len(raw))
	for _, am := range raw {
		m, err := am.toMutation(c.conf.ValidateResponses)
		if err != nil {
			return nil, err
		}
		muts = append(muts, m)
	}
	slog.Debug("cbio: fetched mutations",
		"molecular_profile", molecularProfileID,
		"sample_list", sampleListID, "count", len(muts))
	return muts, nil
}

// CohortMutations is Mutations for a cohort.
func (c *Client) CohortMutations(ctx context.Context, co Cohort) ([]Mutation, error) {
	return c.Mutations(ctx, co.MolecularProfileID, co.SampleListID)
}

func (c *Client) getJSON(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response from %s: %w", u, err)
	}
	return nil
}

// errorMessage extracts the "message" field of a cBioPortal error body, or
// returns the start of the body if it isn't JSON.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &apiErr); err == nil && len(apiErr.Message) > 0 {
		return apiErr.Message
	}
	return strings.TrimSpace(string(data))
}
