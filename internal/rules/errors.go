package rules

import "github.com/JonMunkholm/regvalidate/internal/schema"

// ColumnError is a single field-scoped failure.
// ColumnIndex is nil when the failing field has no column in the layout.
type ColumnError struct {
	ErrorCode   Code   `json:"errorCode"`
	ColumnIndex *int   `json:"columnIndex,omitempty"`
	ColumnName  string `json:"columnName,omitempty"`
}

// ValidationError groups every column error raised against one row.
type ValidationError struct {
	RowNumber      int           `json:"rowNumber"`
	OrganisationID string        `json:"organisationId"`
	SubsidiaryID   string        `json:"subsidiaryId"`
	ColumnErrors   []ColumnError `json:"columnErrors"`
}

// ColumnErrorFor builds a column error located at f in the row's layout.
func ColumnErrorFor(row schema.Row, f schema.Field, code Code) ColumnError {
	ce := ColumnError{ErrorCode: code}
	if t := row.Table(); t != nil {
		if m, ok := t.Meta(f); ok {
			idx := m.Index
			ce.ColumnIndex = &idx
			ce.ColumnName = m.Name
		}
	}
	return ce
}

// NewValidationError wraps column errors for a row.
func NewValidationError(row schema.Row, errs ...ColumnError) ValidationError {
	return ValidationError{
		RowNumber:      row.LineNumber,
		OrganisationID: row.OrganisationID(),
		SubsidiaryID:   row.SubsidiaryID(),
		ColumnErrors:   errs,
	}
}

// CountColumnErrors returns the number of column errors across all row errors.
func CountColumnErrors(errs []ValidationError) int {
	n := 0
	for _, e := range errs {
		n += len(e.ColumnErrors)
	}
	return n
}

// DistinctCodes returns every code in errs once, in first-seen order.
func DistinctCodes(errs []ValidationError) []Code {
	seen := make(map[Code]bool)
	codes := make([]Code, 0)
	for _, e := range errs {
		for _, ce := range e.ColumnErrors {
			if !seen[ce.ErrorCode] {
				seen[ce.ErrorCode] = true
				codes = append(codes, ce.ErrorCode)
			}
		}
	}
	return codes
}
