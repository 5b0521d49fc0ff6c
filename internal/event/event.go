// Package event turns validation results into the outcome handed to the
// submission service.
package event

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/schema"
)

// Type is the kind of outbound event.
type Type string

const (
	Registration      Type = "Registration"
	BrandValidation   Type = "BrandValidation"
	PartnerValidation Type = "PartnerValidation"
)

// TypeFor returns the event type produced for a file of row type rt.
func TypeFor(rt schema.RowType) Type {
	switch rt {
	case schema.Brand:
		return BrandValidation
	case schema.Partner:
		return PartnerValidation
	default:
		return Registration
	}
}

var (
	// Activity values on packaging_activity_so that mean the organisation owns brands.
	brandOwningActivities = map[string]bool{"PRIMARY": true, "SECONDARY": true}

	// Organisation types that are run as partnerships.
	partnershipTypes = map[string]bool{
		rules.TypePartnership: true,
		rules.TypeLLP:         true,
		rules.TypePLP:         true,
	}
)

// Requirements says which appended files the submitter must upload next.
type Requirements struct {
	RequiresBrandsFile       bool `json:"requiresBrandsFile"`
	RequiresPartnershipsFile bool `json:"requiresPartnershipsFile"`
}

// RequiredFiles scans organisation rows once, stopping as soon as both
// requirements are known to be true.
func RequiredFiles(rows []schema.Row) Requirements {
	var req Requirements
	for _, row := range rows {
		if !req.RequiresBrandsFile && brandOwningActivities[strings.ToUpper(row.Get(schema.PackagingActivitySO))] {
			req.RequiresBrandsFile = true
		}
		if !req.RequiresPartnershipsFile && partnershipTypes[strings.ToUpper(row.Get(schema.OrganisationTypeCode))] {
			req.RequiresPartnershipsFile = true
		}
		if req.RequiresBrandsFile && req.RequiresPartnershipsFile {
			break
		}
	}
	return req
}

// Outcome is the result of validating one file. It is built once and not
// changed afterwards.
type Outcome struct {
	Type    Type `json:"type"`
	IsValid bool `json:"isValid"`

	// Errors holds the file level code of a failed run, or the distinct row
	// error codes of a brand or partner file.
	Errors []rules.Code `json:"errors"`

	// ValidationErrors holds the row errors of an organisation file.
	ValidationErrors []rules.ValidationError `json:"validationErrors"`

	Requirements
}

// NewRegistration builds the outcome of an organisation file that parsed.
// It is valid even when rows carry errors; only NewFailure marks a file
// invalid.
func NewRegistration(rows []schema.Row, errs []rules.ValidationError) Outcome {
	if errs == nil {
		errs = []rules.ValidationError{}
	}
	return Outcome{
		Type:             Registration,
		IsValid:          true,
		Errors:           []rules.Code{},
		ValidationErrors: errs,
		Requirements:     RequiredFiles(rows),
	}
}

// NewAppendedFile builds the outcome of a brand or partner file. Only the
// distinct codes are reported, and the file is valid when there are none.
func NewAppendedFile(t Type, errs []rules.ValidationError) Outcome {
	codes := rules.DistinctCodes(errs)
	return Outcome{
		Type:             t,
		IsValid:          len(codes) == 0,
		Errors:           codes,
		ValidationErrors: []rules.ValidationError{},
	}
}

// NewFailure builds the outcome of a file that could not be read: a single
// file level code and no row detail.
func NewFailure(t Type, code rules.Code) Outcome {
	return Outcome{
		Type:             t,
		IsValid:          false,
		Errors:           []rules.Code{code},
		ValidationErrors: []rules.ValidationError{},
	}
}

// Blob locates the validated file.
type Blob struct {
	Name      string
	Container string
}

// SubmissionEvent is the message sent to the submission service.
type SubmissionEvent struct {
	ID                       uuid.UUID               `json:"id"`
	SubmissionID             string                  `json:"submissionId"`
	UserID                   string                  `json:"userId"`
	Type                     Type                    `json:"type"`
	IsValid                  bool                    `json:"isValid"`
	Errors                   []rules.Code            `json:"errors"`
	ValidationErrors         []rules.ValidationError `json:"validationErrors"`
	RequiresBrandsFile       bool                    `json:"requiresBrandsFile"`
	RequiresPartnershipsFile bool                    `json:"requiresPartnershipsFile"`
	BlobName                 string                  `json:"blobName"`
	BlobContainerName        string                  `json:"blobContainerName"`
	CreatedAt                time.Time               `json:"createdAt"`
}

// Event wraps the outcome for delivery.
func (o Outcome) Event(submissionID, userID string, blob Blob) SubmissionEvent {
	return SubmissionEvent{
		ID:                       uuid.New(),
		SubmissionID:             submissionID,
		UserID:                   userID,
		Type:                     o.Type,
		IsValid:                  o.IsValid,
		Errors:                   o.Errors,
		ValidationErrors:         o.ValidationErrors,
		RequiresBrandsFile:       o.RequiresBrandsFile,
		RequiresPartnershipsFile: o.RequiresPartnershipsFile,
		BlobName:                 blob.Name,
		BlobContainerName:        blob.Container,
		CreatedAt:                time.Now().UTC(),
	}
}
