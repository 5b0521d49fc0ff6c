package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the HTTP implementation of Directory.
type Client struct {
	baseURL string
	http    *http.Client
	retry   RetryPolicy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetryPolicy sets how temporary failures are retried.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// NewClient creates a directory client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		retry:   DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Directory = (*Client)(nil)

func (c *Client) GetByOrganisation(ctx context.Context, organisationID string) ([]Organisation, error) {
	return c.get(ctx, "get by organisation", "/organisations/"+url.PathEscape(organisationID))
}

func (c *Client) GetByProducer(ctx context.Context, producerID string) ([]Organisation, error) {
	return c.get(ctx, "get by producer", "/producers/"+url.PathEscape(producerID)+"/organisations")
}

func (c *Client) GetComplianceSchemeMembers(ctx context.Context, organisationID, schemeID string) ([]Organisation, error) {
	path := "/compliance-schemes/" + url.PathEscape(schemeID) + "/members/" + url.PathEscape(organisationID)
	return c.get(ctx, "get compliance scheme members", path)
}

type remainingRequest struct {
	ReferenceNumbers []string `json:"referenceNumbers"`
}

func (c *Client) GetRemainingProducerDetails(ctx context.Context, organisationIDs []string) ([]Organisation, error) {
	if len(organisationIDs) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(remainingRequest{ReferenceNumbers: organisationIDs})
	if err != nil {
		return nil, fmt.Errorf("encode remaining producer request: %w", err)
	}
	return c.do(ctx, "get remaining producer details", http.MethodPost, "/producers/remaining", body)
}

func (c *Client) get(ctx context.Context, op, path string) ([]Organisation, error) {
	return c.do(ctx, op, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) ([]Organisation, error) {
	var out []Organisation
	err := doWithRetry(ctx, c.retry, func() error {
		var err error
		out, err = c.once(ctx, op, method, path, body)
		return err
	})
	return out, err
}

// once performs a single request. 404 means "no record" and is not an error.
func (c *Client) once(ctx context.Context, op, method, path string, body []byte) ([]Organisation, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(msg)))}
	}

	var orgs []Organisation
	if err := json.NewDecoder(resp.Body).Decode(&orgs); err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return orgs, nil
}
