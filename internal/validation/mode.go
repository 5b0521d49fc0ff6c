// Package validation sequences the rule phases of a validation run.
//
// An organisation run moves through four phases in a fixed order:
//
//	RowRules -> Duplicates -> Hierarchy -> CrossReference
//
// All phases share one error budget counted in column errors. When the budget
// runs out the row that exhausted it is truncated and every remaining row and
// phase is skipped. Brand and partner runs only have the RowRules phase.
package validation

import "github.com/JonMunkholm/regvalidate/internal/rules"

// DefaultErrorLimit is the column error budget used when none is configured.
const DefaultErrorLimit = 200

// Mode selects which phases a run executes and how many errors it reports.
type Mode struct {
	// ErrorLimit caps the number of column errors a run returns.
	// Values <= 0 are replaced by DefaultErrorLimit.
	ErrorLimit int

	// RowRules enables the per-row rule catalogue.
	RowRules bool

	// CrossReference enables the organisation directory phase.
	CrossReference bool

	// LeaverRules picks the leaver/status code scheme.
	LeaverRules rules.LeaverRuleSet
}

// DefaultMode runs row rules with the default limit and no cross-reference.
func DefaultMode() Mode {
	return Mode{ErrorLimit: DefaultErrorLimit, RowRules: true, LeaverRules: rules.LeaverRulesStatusCode}
}

func (m Mode) limit() int {
	if m.ErrorLimit <= 0 {
		return DefaultErrorLimit
	}
	return m.ErrorLimit
}

// Submitter identifies who uploaded the file.
type Submitter struct {
	// ProducerID is the submitting organisation.
	ProducerID string

	// ComplianceSchemeID is set when a compliance scheme submitted on behalf
	// of its members.
	ComplianceSchemeID string
}

// IsComplianceScheme reports whether the upload came from a compliance scheme.
func (s Submitter) IsComplianceScheme() bool { return s.ComplianceSchemeID != "" }
