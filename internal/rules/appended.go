package rules

import "github.com/JonMunkholm/regvalidate/internal/schema"

// BrandRules returns the rule set for brand rows. Cross-file checks use
// Context.Lookup.
func BrandRules() *RuleSet {
	return NewRuleSet(schema.Brand,
		required(schema.OrganisationID, MissingOrganisationID),
		crossFileOrganisation(BrandDetailsNotMatchingOrganisation),
		crossFileSubsidiary(BrandDetailsNotMatchingSubsidiary),
		required(schema.BrandName, MissingBrandName),
		safeText(schema.BrandName),
		required(schema.BrandTypeCode, MissingBrandTypeCode),
	)
}

// PartnerRules returns the rule set for partner rows. Cross-file checks use
// Context.Lookup.
func PartnerRules() *RuleSet {
	return NewRuleSet(schema.Partner,
		required(schema.OrganisationID, MissingOrganisationID),
		crossFileOrganisation(PartnerDetailsNotMatchingOrganisation),
		crossFileSubsidiary(PartnerDetailsNotMatchingSubsidiary),
		required(schema.PartnerFirstName, MissingPartnerFirstName),
		safeText(schema.PartnerFirstName),
		required(schema.PartnerLastName, MissingPartnerLastName),
		safeText(schema.PartnerLastName),
		required(schema.PartnerPhone, MissingPartnerPhoneNumber),
		phoneFormat(schema.PartnerPhone),
		required(schema.PartnerEmail, MissingPartnerEmail),
		emailFormat(schema.PartnerEmail),
	)
}

// ForRowType returns the rule set for rt, or nil for an unknown row type.
func ForRowType(rt schema.RowType, leavers LeaverRuleSet) *RuleSet {
	switch rt {
	case schema.Organisation:
		return OrganisationRules(leavers)
	case schema.Brand:
		return BrandRules()
	case schema.Partner:
		return PartnerRules()
	}
	return nil
}
