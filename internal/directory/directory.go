// Package directory talks to the authoritative organisation directory.
//
// Lookups return (nil, nil) when the directory has no record. Every failure
// that comes from the HTTP exchange itself is a *TransportError; the
// validator treats those as "no findings" rather than failing the run.
package directory

import (
	"context"
	"fmt"
)

// Organisation is the directory's view of one registered organisation.
type Organisation struct {
	ReferenceNumber      string `json:"referenceNumber"`
	CompaniesHouseNumber string `json:"companiesHouseNumber"`
}

// Directory is the organisation directory collaborator.
type Directory interface {
	// GetByOrganisation returns the records for an organisation reference number.
	GetByOrganisation(ctx context.Context, organisationID string) ([]Organisation, error)

	// GetByProducer returns the organisations registered under a producer account.
	GetByProducer(ctx context.Context, producerID string) ([]Organisation, error)

	// GetComplianceSchemeMembers returns the organisation's record if it is a
	// member of the scheme.
	GetComplianceSchemeMembers(ctx context.Context, organisationID, schemeID string) ([]Organisation, error)

	// GetRemainingProducerDetails resolves a batch of reference numbers in one call.
	GetRemainingProducerDetails(ctx context.Context, organisationIDs []string) ([]Organisation, error)
}

// TransportError is an HTTP-level failure talking to a collaborator.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("directory %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("directory %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Temporary reports whether retrying the request may succeed.
func (e *TransportError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == 429
}

// Index maps reference numbers to their records.
func Index(orgs []Organisation) map[string]Organisation {
	m := make(map[string]Organisation, len(orgs))
	for _, o := range orgs {
		if _, ok := m[o.ReferenceNumber]; !ok {
			m[o.ReferenceNumber] = o
		}
	}
	return m
}
