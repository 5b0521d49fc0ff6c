package rules

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

const (
	// MaxFieldLength is the rune limit applied to every cell.
	MaxFieldLength = 160

	// MaxChangeReasonLength applies to organisation_change_reason instead of MaxFieldLength.
	MaxChangeReasonLength = 200
)

// Context is the read-only state a rule may consult besides the row itself.
type Context struct {
	// ComplianceScheme is true when the file was submitted by a compliance
	// scheme on behalf of its members.
	ComplianceScheme bool

	// Now anchors the "not in the future" date checks. Zero means time.Now().
	Now time.Time

	// Lookup holds the organisation identities of the matching organisation
	// file. Brand and partner cross-file checks are skipped when it is empty.
	Lookup LookupTable
}

func (c Context) today() time.Time {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Check inspects a row and returns the failing code, or "" when the row passes.
type Check func(row schema.Row, ctx Context) Code

// Rule binds a check to the field its error is reported against.
type Rule struct {
	Field schema.Field
	Check Check
}

// RuleSet is an ordered list of rules for one row type.
//
// Rules run in order. Once a field has failed, later rules for the same field
// are skipped; rules for other fields still run.
type RuleSet struct {
	rowType schema.RowType
	rules   []Rule
}

// NewRuleSet builds a rule set from rules in evaluation order.
func NewRuleSet(rt schema.RowType, rules ...Rule) *RuleSet {
	return &RuleSet{rowType: rt, rules: rules}
}

// RowType returns the row type the set validates.
func (s *RuleSet) RowType() schema.RowType { return s.rowType }

// Len returns the number of rules.
func (s *RuleSet) Len() int { return len(s.rules) }

// Validate runs the set against one row. A nil result means the row is valid.
//
// The length gate runs first: if any cell is too long the row gets a single
// CharacterLengthExceeded error on the first offending column and no other
// rule is evaluated.
func (s *RuleSet) Validate(row schema.Row, ctx Context) []ColumnError {
	if f, ok := firstOverlongField(row); ok {
		return []ColumnError{ColumnErrorFor(row, f, CharacterLengthExceeded)}
	}

	var errs []ColumnError
	failed := make(map[schema.Field]bool)
	for _, r := range s.rules {
		if failed[r.Field] {
			continue
		}
		if code := r.Check(row, ctx); code != "" {
			failed[r.Field] = true
			errs = append(errs, ColumnErrorFor(row, r.Field, code))
		}
	}
	return errs
}

func firstOverlongField(row schema.Row) (schema.Field, bool) {
	t := row.Table()
	if t == nil {
		return "", false
	}
	for _, c := range t.Columns() {
		limit := MaxFieldLength
		if c.Field == schema.OrganisationChangeReason {
			limit = MaxChangeReasonLength
		}
		if utf8.RuneCountInString(row.Get(c.Field)) > limit {
			return c.Field, true
		}
	}
	return "", false
}

// Building blocks shared by the row type rule lists.

func rule(f schema.Field, c Check) Rule { return Rule{Field: f, Check: c} }

// required fails with code when the field is empty.
func required(f schema.Field, code Code) Rule {
	return rule(f, func(row schema.Row, _ Context) Code {
		if row.Get(f) == "" {
			return code
		}
		return ""
	})
}

// requiredWhen is required guarded by a row predicate.
func requiredWhen(f schema.Field, code Code, when func(schema.Row, Context) bool) Rule {
	return rule(f, func(row schema.Row, ctx Context) Code {
		if row.Get(f) == "" && when(row, ctx) {
			return code
		}
		return ""
	})
}

// oneOf fails with code when the field is present and not in values.
// Comparison ignores case.
func oneOf(f schema.Field, code Code, values ...string) Rule {
	return inSet(f, code, newCodeSet(values...))
}

func inSet(f schema.Field, code Code, set codeSet) Rule {
	return rule(f, func(row schema.Row, _ Context) Code {
		v := row.Get(f)
		if v != "" && !set.has(v) {
			return code
		}
		return ""
	})
}

// matches fails with code when the field is present and ok rejects it.
func matches(f schema.Field, code Code, ok func(string) bool) Rule {
	return rule(f, func(row schema.Row, _ Context) Code {
		v := row.Get(f)
		if v != "" && !ok(v) {
			return code
		}
		return ""
	})
}

type codeSet map[string]struct{}

func newCodeSet(values ...string) codeSet {
	s := make(codeSet, len(values))
	for _, v := range values {
		s[strings.ToUpper(v)] = struct{}{}
	}
	return s
}

func (s codeSet) has(v string) bool {
	_, ok := s[strings.ToUpper(strings.TrimSpace(v))]
	return ok
}

func isParent(row schema.Row, _ Context) bool { return !row.IsSubsidiary() }

func organisationType(row schema.Row) string {
	return strings.ToUpper(row.Get(schema.OrganisationTypeCode))
}
