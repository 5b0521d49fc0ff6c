package rules

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

// Organisation type codes.
const (
	TypeSoleTrader        = "SOL"
	TypePartnership       = "PAR"
	TypeRegisteredCompany = "REG"
	TypePLP               = "PLP"
	TypeLLP               = "LLP"
	TypeCIO               = "CIO"
	TypeCooperative       = "COP"
	TypeOther             = "OTH"
	TypeOutsideUK         = "OUT"
)

// Organisation sub-type codes. Licensor, pub operator and franchisor are head
// types; see HeadChildSubTypes.
const (
	SubTypeLicensor    = "LIC"
	SubTypeLicensee    = "LIE"
	SubTypePubOperator = "POB"
	SubTypeTenant      = "TEN"
	SubTypeFranchisor  = "FRA"
	SubTypeFranchisee  = "FRE"
	SubTypeHireCompany = "HCY"
	SubTypeSubsidiary  = "SUB"
)

// HeadChildSubTypes maps each head sub-type to the child sub-type it requires.
var HeadChildSubTypes = map[string]string{
	SubTypeLicensor:    SubTypeLicensee,
	SubTypePubOperator: SubTypeTenant,
	SubTypeFranchisor:  SubTypeFranchisee,
}

var (
	homeNations = []string{"EN", "NI", "SC", "WS"}

	organisationTypes = []string{
		TypeSoleTrader, TypePartnership, TypeRegisteredCompany, TypePLP, TypeLLP,
		TypeCIO, TypeCooperative, TypeOther, TypeOutsideUK,
	}

	organisationSubTypes = []string{
		SubTypeLicensor, SubTypeLicensee, SubTypePubOperator, SubTypeTenant,
		SubTypeFranchisor, SubTypeFranchisee, SubTypeHireCompany, SubTypeSubsidiary,
	}

	// Organisation types that must quote a companies house number.
	incorporatedTypes = newCodeSet(TypeRegisteredCompany, TypeLLP, TypePLP)

	companiesHousePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,8}$`)
)

// OrganisationRules returns the rule set for organisation rows with the given
// leaver scheme active.
func OrganisationRules(leavers LeaverRuleSet) *RuleSet {
	rs := []Rule{
		required(schema.OrganisationID, MissingOrganisationID),
		required(schema.OrganisationName, MissingOrganisationName),
		safeText(schema.OrganisationName),
		safeText(schema.TradingName),
		required(schema.HomeNationCode, MissingHomeNationCode),
		oneOf(schema.HomeNationCode, InvalidHomeNationCode, homeNations...),
		required(schema.OrganisationTypeCode, MissingOrganisationTypeCode),
		oneOf(schema.OrganisationTypeCode, InvalidOrganisationTypeCode, organisationTypes...),
		oneOf(schema.OrganisationSubTypeCode, InvalidOrganisationSubTypeCode, organisationSubTypes...),
		oneOf(schema.RegistrationTypeCode, InvalidRegistrationTypeCode, "GR", "IN"),
		requiredWhen(schema.CompaniesHouseNumber, MissingCompaniesHouseNumber, func(row schema.Row, _ Context) bool {
			return incorporatedTypes.has(organisationType(row))
		}),
		matches(schema.CompaniesHouseNumber, InvalidCompaniesHouseNumber, validCompaniesHouseNumber),
		sicRule(),
	}
	rs = append(rs, activityRules()...)
	rs = append(rs, turnoverRules()...)
	rs = append(rs, tonnageRules()...)
	rs = append(rs, oneOf(schema.ProduceBlankPackagingFlag, InvalidProduceBlankPackagingFlag, "Yes", "No"))
	rs = append(rs, addressRules()...)
	rs = append(rs, contactRules()...)
	rs = append(rs, leaverRules(leavers)...)
	return NewRuleSet(schema.Organisation, rs...)
}

func validCompaniesHouseNumber(v string) bool {
	return companiesHousePattern.MatchString(v) && strings.Trim(v, "0") != ""
}
