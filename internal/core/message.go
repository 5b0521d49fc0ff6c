package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/regvalidate/internal/schema"
	"github.com/JonMunkholm/regvalidate/internal/validation"
)

// ErrInvalidMessage is returned for messages that can never be processed.
// Redelivering them does not help.
var ErrInvalidMessage = errors.New("invalid message")

// SubmissionSubType says which file of a submission a message refers to.
type SubmissionSubType string

const (
	SubTypeCompanyDetails SubmissionSubType = "CompanyDetails"
	SubTypeBrands         SubmissionSubType = "Brands"
	SubTypePartnerships   SubmissionSubType = "Partnerships"
)

// RowType maps the sub-type to the row type of its file.
func (s SubmissionSubType) RowType() (schema.RowType, bool) {
	switch s {
	case SubTypeCompanyDetails:
		return schema.Organisation, true
	case SubTypeBrands:
		return schema.Brand, true
	case SubTypePartnerships:
		return schema.Partner, true
	}
	return "", false
}

// Message is the inbound request to validate one uploaded file.
type Message struct {
	BlobName           string            `json:"blobName"`
	SubmissionID       string            `json:"submissionId"`
	SubmissionSubType  SubmissionSubType `json:"submissionSubType"`
	UserID             string            `json:"userId"`
	OrganisationID     string            `json:"organisationId"`
	ComplianceSchemeID string            `json:"complianceSchemeId,omitempty"`
	UserType           string            `json:"userType"`
}

// Validate checks the message and reports every problem at once.
func (m Message) Validate() error {
	var errs []string

	if strings.TrimSpace(m.BlobName) == "" {
		errs = append(errs, "blobName is required")
	}
	if _, ok := m.SubmissionSubType.RowType(); !ok {
		errs = append(errs, fmt.Sprintf("submissionSubType %q is not one of CompanyDetails, Brands, Partnerships", m.SubmissionSubType))
	}
	for _, id := range []struct {
		name     string
		value    string
		optional bool
	}{
		{"submissionId", m.SubmissionID, false},
		{"userId", m.UserID, false},
		{"organisationId", m.OrganisationID, false},
		{"complianceSchemeId", m.ComplianceSchemeID, true},
	} {
		if id.value == "" {
			if !id.optional {
				errs = append(errs, id.name+" is required")
			}
			continue
		}
		if _, err := uuid.Parse(id.value); err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not a uuid", id.name, id.value))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidMessage, strings.Join(errs, "; "))
	}
	return nil
}

// Submitter returns who uploaded the file.
func (m Message) Submitter() validation.Submitter {
	return validation.Submitter{ProducerID: m.OrganisationID, ComplianceSchemeID: m.ComplianceSchemeID}
}
