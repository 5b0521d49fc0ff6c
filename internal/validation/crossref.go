package validation

import (
	"context"
	"errors"

	"github.com/JonMunkholm/regvalidate/internal/directory"
	"github.com/JonMunkholm/regvalidate/internal/logging"
	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/schema"
)

// crossReference checks organisation ids against the directory.
//
// All lookups finish before anything is recorded, so a transport failure
// part way through leaves the run untouched.
func (v *Validator) crossReference(ctx context.Context, r *run, rows []schema.Row, sub Submitter) error {
	mode := "producer"
	check := v.producerCrossReference
	if sub.IsComplianceScheme() {
		mode = "compliance_scheme"
		check = v.schemeCrossReference
	}

	pending, err := check(ctx, rows, sub)
	if err != nil {
		var te *directory.TransportError
		if errors.As(err, &te) {
			logging.FromContext(ctx).Warn("cross-reference skipped: organisation directory unavailable",
				"mode", mode, "op", te.Op, "status", te.StatusCode, "error", te.Err)
			v.observer.CrossReferenceDegraded(mode)
			return nil
		}
		return err
	}

	r.recordAll(pending)
	return nil
}

// producerCrossReference: every row must belong to the submitting producer,
// and a parent row's companies house number must match the directory's.
func (v *Validator) producerCrossReference(ctx context.Context, rows []schema.Row, sub Submitter) ([]pendingError, error) {
	owned, err := v.directory.GetByProducer(ctx, sub.ProducerID)
	if err != nil {
		return nil, err
	}
	ownedIdx := directory.Index(owned)

	details := make(map[string]map[string]directory.Organisation)
	for _, id := range distinctOrganisationIDs(rows) {
		orgs, err := v.directory.GetByOrganisation(ctx, id)
		if err != nil {
			return nil, err
		}
		details[id] = directory.Index(orgs)
	}

	var out []pendingError
	for _, row := range rows {
		id := row.OrganisationID()
		if id == "" {
			continue
		}
		rec, found := details[id][id]
		if _, mine := ownedIdx[id]; !found || !mine {
			out = append(out, pendingError{row, []rules.ColumnError{
				rules.ColumnErrorFor(row, schema.OrganisationID, rules.OrganisationNotFoundForProducer),
			}})
			continue
		}
		if row.IsSubsidiary() {
			continue
		}
		chn := row.Get(schema.CompaniesHouseNumber)
		if chn != "" && rec.CompaniesHouseNumber != "" && chn != rec.CompaniesHouseNumber {
			out = append(out, pendingError{row, []rules.ColumnError{
				rules.ColumnErrorFor(row, schema.OrganisationID, rules.CompaniesHouseNumberNotMatching),
				rules.ColumnErrorFor(row, schema.CompaniesHouseNumber, rules.CompaniesHouseNumberNotMatching),
			}})
		}
	}
	return out, nil
}

// schemeCrossReference: every row's organisation must be a member of the
// submitting scheme. Ids the per-organisation lookup cannot resolve get one
// more chance through a single batched call.
func (v *Validator) schemeCrossReference(ctx context.Context, rows []schema.Row, sub Submitter) ([]pendingError, error) {
	resolved := make(map[string]bool)
	var unresolved []string
	for _, id := range distinctOrganisationIDs(rows) {
		members, err := v.directory.GetComplianceSchemeMembers(ctx, id, sub.ComplianceSchemeID)
		if err != nil {
			return nil, err
		}
		if len(members) > 0 {
			resolved[id] = true
			continue
		}
		unresolved = append(unresolved, id)
	}

	if len(unresolved) > 0 {
		remaining, err := v.directory.GetRemainingProducerDetails(ctx, unresolved)
		if err != nil {
			return nil, err
		}
		for _, o := range remaining {
			resolved[o.ReferenceNumber] = true
		}
	}

	var out []pendingError
	for _, row := range rows {
		id := row.OrganisationID()
		if id == "" || resolved[id] {
			continue
		}
		out = append(out, pendingError{row, []rules.ColumnError{
			rules.ColumnErrorFor(row, schema.OrganisationID, rules.OrganisationNotSchemeMember),
		}})
	}
	return out, nil
}

func distinctOrganisationIDs(rows []schema.Row) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, row := range rows {
		id := row.OrganisationID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
