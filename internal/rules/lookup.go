package rules

import "github.com/JonMunkholm/regvalidate/internal/schema"

// Identity is what the lookup table remembers about an organisation file row.
type Identity struct {
	OrganisationID string
	SubsidiaryID   string
	LineNumber     int
}

// LookupTable maps organisation id to the subsidiary ids filed under it.
//
// It is built once per run from the organisation file and only read
// afterwards. An empty table means no organisation data is available.
type LookupTable map[string]map[string]Identity

// BuildLookup indexes the identities of organisation rows.
//
// Every organisation id seen is registered, so a parent-only organisation has
// an empty subsidiary set. Only rows with a subsidiary id add to that set.
// The first row for a pair wins.
func BuildLookup(rows []schema.Row) LookupTable {
	t := make(LookupTable)
	for _, r := range rows {
		org := r.OrganisationID()
		if org == "" {
			continue
		}
		subs, ok := t[org]
		if !ok {
			subs = make(map[string]Identity)
			t[org] = subs
		}
		sub := r.SubsidiaryID()
		if sub == "" {
			continue
		}
		if _, dup := subs[sub]; !dup {
			subs[sub] = Identity{OrganisationID: org, SubsidiaryID: sub, LineNumber: r.LineNumber}
		}
	}
	return t
}

// Empty reports whether the table holds no organisations.
func (t LookupTable) Empty() bool { return len(t) == 0 }

// HasOrganisation reports whether org appears in the table.
func (t LookupTable) HasOrganisation(org string) bool {
	_, ok := t[org]
	return ok
}

// HasSubsidiary reports whether sub is filed under org.
func (t LookupTable) HasSubsidiary(org, sub string) bool {
	_, ok := t[org][sub]
	return ok
}

// crossFileOrganisation fails with code when the lookup table is populated
// and the row's organisation id is not in it.
func crossFileOrganisation(code Code) Rule {
	return rule(schema.OrganisationID, func(row schema.Row, ctx Context) Code {
		if ctx.Lookup.Empty() {
			return ""
		}
		org := row.OrganisationID()
		if org != "" && !ctx.Lookup.HasOrganisation(org) {
			return code
		}
		return ""
	})
}

// crossFileSubsidiary fails with code when the row names a subsidiary that is
// not filed under a known organisation. An unknown organisation is reported by
// crossFileOrganisation instead.
func crossFileSubsidiary(code Code) Rule {
	return rule(schema.SubsidiaryID, func(row schema.Row, ctx Context) Code {
		if ctx.Lookup.Empty() {
			return ""
		}
		org, sub := row.OrganisationID(), row.SubsidiaryID()
		if sub == "" || !ctx.Lookup.HasOrganisation(org) {
			return ""
		}
		if !ctx.Lookup.HasSubsidiary(org, sub) {
			return code
		}
		return ""
	})
}
