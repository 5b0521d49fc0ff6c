package validation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/regvalidate/internal/directory"
	"github.com/JonMunkholm/regvalidate/internal/logging"
	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/schema"
)

// Observer receives run-level signals, typically for metrics.
type Observer interface {
	// PhaseErrors reports how many column errors a phase added.
	PhaseErrors(phase string, n int)

	// CrossReferenceDegraded is called when a directory failure made the
	// cross-reference phase yield nothing.
	CrossReferenceDegraded(mode string)
}

type nopObserver struct{}

func (nopObserver) PhaseErrors(string, int)       {}
func (nopObserver) CrossReferenceDegraded(string) {}

// Phase names, as reported to the Observer and in logs.
const (
	PhaseRowRules       = "row_rules"
	PhaseDuplicates     = "duplicates"
	PhaseHierarchy      = "hierarchy"
	PhaseCrossReference = "cross_reference"
)

// Validator runs validation phases over parsed rows. It holds no per-run
// state and is safe for concurrent use.
type Validator struct {
	mode      Mode
	directory directory.Directory
	observer  Observer
	now       func() time.Time

	organisations *rules.RuleSet
	brands        *rules.RuleSet
	partners      *rules.RuleSet
}

// Option configures a Validator.
type Option func(*Validator)

// WithObserver sets the run observer.
func WithObserver(o Observer) Option {
	return func(v *Validator) {
		if o != nil {
			v.observer = o
		}
	}
}

// WithClock overrides the time source used by date rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New creates a validator. dir may be nil when cross-reference is disabled.
func New(mode Mode, dir directory.Directory, opts ...Option) *Validator {
	v := &Validator{
		mode:          mode,
		directory:     dir,
		observer:      nopObserver{},
		now:           time.Now,
		organisations: rules.OrganisationRules(mode.LeaverRules),
		brands:        rules.BrandRules(),
		partners:      rules.PartnerRules(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mode returns the mode the validator was built with.
func (v *Validator) Mode() Mode { return v.mode }

// ValidateOrganisations runs every enabled phase over organisation rows.
//
// The returned error is non-nil only for failures that must abort the
// message. Directory transport failures are logged and swallowed.
func (v *Validator) ValidateOrganisations(ctx context.Context, rows []schema.Row, sub Submitter) ([]rules.ValidationError, error) {
	logger := logging.WithFields(ctx, "row_type", schema.Organisation, "rows", len(rows))
	r := newRun(v.mode.limit())
	rctx := rules.Context{ComplianceScheme: sub.IsComplianceScheme(), Now: v.now()}

	if v.mode.RowRules {
		v.phase(PhaseRowRules, r, func() { v.rowRules(r, v.organisations, rows, rctx) })
	}
	if !r.exhausted() {
		v.phase(PhaseDuplicates, r, func() { r.recordAll(duplicates(rows)) })
	}
	if !r.exhausted() {
		v.phase(PhaseHierarchy, r, func() { r.recordAll(hierarchy(rows)) })
	}
	if !r.exhausted() && v.mode.CrossReference && v.directory != nil {
		var err error
		v.phase(PhaseCrossReference, r, func() { err = v.crossReference(ctx, r, rows, sub) })
		if err != nil {
			return nil, fmt.Errorf("cross-reference: %w", err)
		}
	}

	logger.Debug("organisation validation finished", "column_errors", r.used, "row_errors", len(r.errs), "limit", r.limit)
	return r.errs, nil
}

// ValidateBrands runs the brand rules with lookup as cross-file context.
func (v *Validator) ValidateBrands(ctx context.Context, rows []schema.Row, lookup rules.LookupTable) []rules.ValidationError {
	return v.appended(ctx, v.brands, rows, lookup)
}

// ValidatePartners runs the partner rules with lookup as cross-file context.
func (v *Validator) ValidatePartners(ctx context.Context, rows []schema.Row, lookup rules.LookupTable) []rules.ValidationError {
	return v.appended(ctx, v.partners, rows, lookup)
}

func (v *Validator) appended(ctx context.Context, set *rules.RuleSet, rows []schema.Row, lookup rules.LookupTable) []rules.ValidationError {
	r := newRun(v.mode.limit())
	if v.mode.RowRules {
		rctx := rules.Context{Now: v.now(), Lookup: lookup}
		v.phase(PhaseRowRules, r, func() { v.rowRules(r, set, rows, rctx) })
	}
	logging.FromContext(ctx).Debug("appended file validation finished",
		"row_type", set.RowType(), "rows", len(rows), "column_errors", r.used, "lookup_organisations", len(lookup))
	return r.errs
}

func (v *Validator) phase(name string, r *run, fn func()) {
	before := r.used
	fn()
	v.observer.PhaseErrors(name, r.used-before)
}

func (v *Validator) rowRules(r *run, set *rules.RuleSet, rows []schema.Row, rctx rules.Context) {
	for _, row := range rows {
		if !r.record(row, set.Validate(row, rctx)) {
			return
		}
	}
}

// duplicates reports every repeat of an (organisation, subsidiary) pair after
// its first occurrence. Rows without an organisation id are left to the row
// rules.
func duplicates(rows []schema.Row) []pendingError {
	var out []pendingError
	seen := make(map[schema.Key]bool, len(rows))
	for _, row := range rows {
		if row.OrganisationID() == "" {
			continue
		}
		k := row.Key()
		if seen[k] {
			out = append(out, pendingError{row, []rules.ColumnError{
				rules.ColumnErrorFor(row, schema.OrganisationID, rules.DuplicateOrganisationIDSubsidiaryID),
			}})
			continue
		}
		seen[k] = true
	}
	return out
}

// hierarchy reports head rows whose organisation has no subsidiary row of the
// matching child sub-type.
func hierarchy(rows []schema.Row) []pendingError {
	children := make(map[string]map[string]bool)
	for _, row := range rows {
		if !row.IsSubsidiary() {
			continue
		}
		st := strings.ToUpper(row.Get(schema.OrganisationSubTypeCode))
		if st == "" {
			continue
		}
		org := row.OrganisationID()
		if children[org] == nil {
			children[org] = make(map[string]bool)
		}
		children[org][st] = true
	}

	var out []pendingError
	for _, row := range rows {
		child, head := rules.HeadChildSubTypes[strings.ToUpper(row.Get(schema.OrganisationSubTypeCode))]
		if !head || row.OrganisationID() == "" {
			continue
		}
		if !children[row.OrganisationID()][child] {
			out = append(out, pendingError{row, []rules.ColumnError{
				rules.ColumnErrorFor(row, schema.OrganisationSubTypeCode, rules.HeadOrganisationMissingSubOrganisation),
			}})
		}
	}
	return out
}
