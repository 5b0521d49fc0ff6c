package rules

import "github.com/JonMunkholm/regvalidate/internal/schema"

// addressGroup is a set of address columns that become partly mandatory once
// the group is in use.
type addressGroup struct {
	fields []schema.Field

	// types are organisation type codes that always require the group.
	types codeSet

	line1, postcode, phone             schema.Field
	line1Code, postcodeCode, phoneCode Code
}

// inUse reports whether any column of the group is filled in or the
// organisation type demands the group.
func (g addressGroup) inUse(row schema.Row, _ Context) bool {
	if g.types.has(organisationType(row)) {
		return true
	}
	for _, f := range g.fields {
		if row.Get(f) != "" {
			return true
		}
	}
	return false
}

func (g addressGroup) rules() []Rule {
	rs := []Rule{
		requiredWhen(g.line1, g.line1Code, g.inUse),
		requiredWhen(g.postcode, g.postcodeCode, g.inUse),
	}
	if g.phone != "" {
		rs = append(rs, requiredWhen(g.phone, g.phoneCode, g.inUse))
	}
	return rs
}

var addressGroups = []addressGroup{
	{
		fields: []schema.Field{
			schema.RegisteredAddressLine1, schema.RegisteredAddressLine2, schema.RegisteredAddressCity,
			schema.RegisteredAddressCounty, schema.RegisteredAddressPostcode, schema.RegisteredAddressCountry,
			schema.RegisteredAddressPhone,
		},
		types:        newCodeSet(TypeRegisteredCompany, TypeLLP, TypePLP, TypeCIO),
		line1:        schema.RegisteredAddressLine1,
		postcode:     schema.RegisteredAddressPostcode,
		phone:        schema.RegisteredAddressPhone,
		line1Code:    MissingRegisteredAddressLine1,
		postcodeCode: MissingRegisteredAddressPostcode,
		phoneCode:    MissingRegisteredAddressPhoneNumber,
	},
	{
		fields: []schema.Field{
			schema.AuditAddressLine1, schema.AuditAddressLine2, schema.AuditAddressCity,
			schema.AuditAddressCounty, schema.AuditAddressPostcode, schema.AuditAddressCountry,
		},
		types:        newCodeSet(),
		line1:        schema.AuditAddressLine1,
		postcode:     schema.AuditAddressPostcode,
		line1Code:    MissingAuditAddressLine1,
		postcodeCode: MissingAuditAddressPostcode,
	},
	{
		fields: []schema.Field{
			schema.PrincipalAddressLine1, schema.PrincipalAddressLine2, schema.PrincipalAddressCity,
			schema.PrincipalAddressCounty, schema.PrincipalAddressPostcode, schema.PrincipalAddressCountry,
			schema.PrincipalAddressPhone,
		},
		types:        newCodeSet(TypeSoleTrader, TypePartnership),
		line1:        schema.PrincipalAddressLine1,
		postcode:     schema.PrincipalAddressPostcode,
		phone:        schema.PrincipalAddressPhone,
		line1Code:    MissingPrincipalAddressLine1,
		postcodeCode: MissingPrincipalAddressPostcode,
		phoneCode:    MissingPrincipalAddressPhoneNumber,
	},
	{
		fields: []schema.Field{
			schema.ServiceOfNoticeLine1, schema.ServiceOfNoticeLine2, schema.ServiceOfNoticeCity,
			schema.ServiceOfNoticeCounty, schema.ServiceOfNoticePostcode, schema.ServiceOfNoticeCountry,
			schema.ServiceOfNoticePhone,
		},
		types:        newCodeSet(),
		line1:        schema.ServiceOfNoticeLine1,
		postcode:     schema.ServiceOfNoticePostcode,
		phone:        schema.ServiceOfNoticePhone,
		line1Code:    MissingServiceOfNoticeLine1,
		postcodeCode: MissingServiceOfNoticePostcode,
		phoneCode:    MissingServiceOfNoticePhoneNumber,
	},
}

func addressRules() []Rule {
	var rs []Rule
	for _, g := range addressGroups {
		rs = append(rs, g.rules()...)
	}
	return rs
}
