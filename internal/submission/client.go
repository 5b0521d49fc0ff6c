package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OrganisationFileDetails locates the organisation file a brand or partner
// file is validated against.
type OrganisationFileDetails struct {
	BlobName          string `json:"blobName"`
	BlobContainerName string `json:"blobContainerName"`
}

// Client is the HTTP client of the submission API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client rooted at baseURL. A zero timeout means 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetOrganisationFileDetails returns the organisation file of a submission,
// or nil when the submission has none.
func (c *Client) GetOrganisationFileDetails(ctx context.Context, submissionID string) (*OrganisationFileDetails, error) {
	endpoint := c.baseURL + "/submissions/" + url.PathEscape(submissionID) + "/organisation-file-details"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build organisation file details request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get organisation file details: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("get organisation file details: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var details OrganisationFileDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("decode organisation file details: %w", err)
	}
	if details.BlobName == "" {
		return nil, nil
	}
	return &details, nil
}
