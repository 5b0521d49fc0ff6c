// Package rules holds the row and field validators for registration files.
//
// # Error Codes
//
// Codes are short numeric strings consumed by downstream systems. They are a
// public contract: never renumber or reuse one.
//
//	801-808  organisation identity and classification
//	809-816  packaging activity values and the Primary exclusivity check (+822)
//	817-818  cross-row duplicate and hierarchy checks
//	819-829  turnover, tonnage, SIC and flags
//	830-840  address groups
//	841-850  people, contact details, character set and length
//	851-866  status / leaver / joiner rules
//	858-859  companies house number
//	870-872  organisation directory cross-reference
//	880-889  brand and partner files
//	890-892  file level failures
package rules

// Code is a stable validation error code.
type Code string

// Organisation identity and classification.
const (
	MissingOrganisationID          Code = "801"
	MissingOrganisationName        Code = "802"
	MissingHomeNationCode          Code = "803"
	InvalidHomeNationCode          Code = "804"
	MissingOrganisationTypeCode    Code = "805"
	InvalidOrganisationTypeCode    Code = "806"
	InvalidOrganisationSubTypeCode Code = "807"
	InvalidRegistrationTypeCode    Code = "808"
)

// Packaging activity.
const (
	InvalidPackagingActivitySO Code = "809"
	InvalidPackagingActivityPF Code = "810"
	InvalidPackagingActivityIM Code = "811"
	InvalidPackagingActivitySE Code = "812"
	InvalidPackagingActivityHL Code = "813"
	InvalidPackagingActivityOM Code = "814"
	InvalidPackagingActivitySL Code = "815"
	MissingPrimaryActivity     Code = "816"
	MultiplePrimaryActivity    Code = "822"
)

// Cross-row checks.
const (
	DuplicateOrganisationIDSubsidiaryID    Code = "817"
	HeadOrganisationMissingSubOrganisation Code = "818"
)

// Numeric fields and flags.
const (
	MissingTotalTonnage               Code = "819"
	InvalidTotalTonnage               Code = "820"
	TotalTonnageMustBeGreaterThanZero Code = "821"
	TotalTonnageIncludesComma         Code = "823"
	TurnoverIncludesComma             Code = "824"
	InvalidTurnover                   Code = "825"
	TurnoverMustBeGreaterThanZero     Code = "826"
	TurnoverHasTooManyDecimalPlaces   Code = "827"
	InvalidMainActivitySic            Code = "828"
	InvalidProduceBlankPackagingFlag  Code = "829"
)

// Address groups.
const (
	MissingRegisteredAddressLine1       Code = "830"
	MissingRegisteredAddressPostcode    Code = "831"
	MissingRegisteredAddressPhoneNumber Code = "832"
	MissingAuditAddressLine1            Code = "833"
	MissingAuditAddressPostcode         Code = "834"
	MissingPrincipalAddressLine1        Code = "835"
	MissingPrincipalAddressPostcode     Code = "836"
	MissingPrincipalAddressPhoneNumber  Code = "837"
	MissingServiceOfNoticeLine1         Code = "838"
	MissingServiceOfNoticePostcode      Code = "839"
	MissingServiceOfNoticePhoneNumber   Code = "840"
)

// People, contact details, character rules.
const (
	MissingSoleTraderFirstName       Code = "841"
	MissingSoleTraderLastName        Code = "842"
	MissingPrimaryContactFirstName   Code = "843"
	MissingPrimaryContactLastName    Code = "844"
	MissingPrimaryContactPhoneNumber Code = "845"
	MissingPrimaryContactEmail       Code = "846"
	InvalidEmailAddress              Code = "847"
	InvalidPhoneNumber               Code = "848"
	InvalidCharacters                Code = "849"
	CharacterLengthExceeded          Code = "850"
)

// Status, leaver and joiner.
const (
	StatusCodeNotAllowedForParent   Code = "851"
	InvalidStatusCode               Code = "852"
	LeaverCodeNotAllowedForParent   Code = "853"
	InvalidLeaverCode               Code = "854"
	MissingLeaverDate               Code = "855"
	LeaverDateNotAllowed            Code = "856"
	MissingOrganisationChangeReason Code = "857"
	InvalidLeaverDateFormat         Code = "860"
	InvalidJoinerDateFormat         Code = "861"
	LeaverDateInFuture              Code = "862"
	JoinerDateInFuture              Code = "863"
	LeaverDateBeforeJoinerDate      Code = "864"
	StatusCodeNotPermitted          Code = "865"
	LeaverCodeNotPermitted          Code = "866"
)

// Companies house number.
const (
	MissingCompaniesHouseNumber Code = "858"
	InvalidCompaniesHouseNumber Code = "859"
)

// Organisation directory cross-reference.
const (
	OrganisationNotFoundForProducer Code = "870"
	CompaniesHouseNumberNotMatching Code = "871"
	OrganisationNotSchemeMember     Code = "872"
)

// Brand and partner files.
const (
	MissingBrandName                      Code = "880"
	MissingBrandTypeCode                  Code = "881"
	BrandDetailsNotMatchingOrganisation   Code = "882"
	BrandDetailsNotMatchingSubsidiary     Code = "883"
	MissingPartnerFirstName               Code = "884"
	MissingPartnerLastName                Code = "885"
	MissingPartnerPhoneNumber             Code = "886"
	MissingPartnerEmail                   Code = "887"
	PartnerDetailsNotMatchingOrganisation Code = "888"
	PartnerDetailsNotMatchingSubsidiary   Code = "889"
)

// File level failures. These end a run before any row is validated.
const (
	InvalidFileHeaders Code = "890"
	FileEmpty          Code = "891"
	InvalidFileFormat  Code = "892"
)

var descriptions = map[Code]string{
	MissingOrganisationID:                  "organisation_id is required",
	MissingOrganisationName:                "organisation_name is required",
	MissingHomeNationCode:                  "home_nation_code is required",
	InvalidHomeNationCode:                  "home_nation_code must be EN, NI, SC or WS",
	MissingOrganisationTypeCode:            "organisation_type_code is required",
	InvalidOrganisationTypeCode:            "organisation_type_code is not a recognised code",
	InvalidOrganisationSubTypeCode:         "organisation_sub_type_code is not a recognised code",
	InvalidRegistrationTypeCode:            "registration_type_code must be GR or IN",
	InvalidPackagingActivitySO:             "packaging_activity_so must be Primary, Secondary or No",
	InvalidPackagingActivityPF:             "packaging_activity_pf must be Primary, Secondary or No",
	InvalidPackagingActivityIM:             "packaging_activity_im must be Primary, Secondary or No",
	InvalidPackagingActivitySE:             "packaging_activity_se must be Primary, Secondary or No",
	InvalidPackagingActivityHL:             "packaging_activity_hl must be Primary, Secondary or No",
	InvalidPackagingActivityOM:             "packaging_activity_om must be Primary, Secondary or No",
	InvalidPackagingActivitySL:             "packaging_activity_sl must be Primary, Secondary or No",
	MissingPrimaryActivity:                 "one packaging activity must be Primary",
	MultiplePrimaryActivity:                "only one packaging activity can be Primary",
	DuplicateOrganisationIDSubsidiaryID:    "organisation_id and subsidiary_id combination is duplicated",
	HeadOrganisationMissingSubOrganisation: "head organisation has no linked sub-organisation rows",
	MissingTotalTonnage:                    "total_tonnage is required",
	InvalidTotalTonnage:                    "total_tonnage must be a whole number",
	TotalTonnageMustBeGreaterThanZero:      "total_tonnage must be greater than zero",
	TotalTonnageIncludesComma:              "total_tonnage must not contain commas",
	TurnoverIncludesComma:                  "turnover must not contain commas",
	InvalidTurnover:                        "turnover must be a number",
	TurnoverMustBeGreaterThanZero:          "turnover must be greater than zero",
	TurnoverHasTooManyDecimalPlaces:        "turnover can have at most two decimal places",
	InvalidMainActivitySic:                 "main_activity_sic must be five digits",
	InvalidProduceBlankPackagingFlag:       "produce_blank_packaging_flag must be Yes or No",
	MissingRegisteredAddressLine1:          "registered address line 1 is required",
	MissingRegisteredAddressPostcode:       "registered address postcode is required",
	MissingRegisteredAddressPhoneNumber:    "registered address phone number is required",
	MissingAuditAddressLine1:               "audit address line 1 is required",
	MissingAuditAddressPostcode:            "audit address postcode is required",
	MissingPrincipalAddressLine1:           "principal address line 1 is required",
	MissingPrincipalAddressPostcode:        "principal address postcode is required",
	MissingPrincipalAddressPhoneNumber:     "principal address phone number is required",
	MissingServiceOfNoticeLine1:            "service of notice address line 1 is required",
	MissingServiceOfNoticePostcode:         "service of notice address postcode is required",
	MissingServiceOfNoticePhoneNumber:      "service of notice address phone number is required",
	MissingSoleTraderFirstName:             "sole trader first name is required",
	MissingSoleTraderLastName:              "sole trader last name is required",
	MissingPrimaryContactFirstName:         "primary contact first name is required",
	MissingPrimaryContactLastName:          "primary contact last name is required",
	MissingPrimaryContactPhoneNumber:       "primary contact phone number is required",
	MissingPrimaryContactEmail:             "primary contact email is required",
	InvalidEmailAddress:                    "email address is not valid",
	InvalidPhoneNumber:                     "phone number contains invalid characters",
	InvalidCharacters:                      "value must not start with =, + or @",
	CharacterLengthExceeded:                "value is longer than the maximum allowed length",
	StatusCodeNotAllowedForParent:          "status_code is not allowed on the registering organisation",
	InvalidStatusCode:                      "status_code is not a recognised code",
	LeaverCodeNotAllowedForParent:          "leaver_code is not allowed on the registering organisation",
	InvalidLeaverCode:                      "leaver_code is not a recognised code",
	MissingLeaverDate:                      "leaver_date is required when a leaver code is given",
	LeaverDateNotAllowed:                   "leaver_date must be empty when no leaver or status code is given",
	MissingOrganisationChangeReason:        "organisation_change_reason is required when a leaver code is given",
	InvalidLeaverDateFormat:                "leaver_date must be dd/MM/yyyy",
	InvalidJoinerDateFormat:                "joiner_date must be dd/MM/yyyy",
	LeaverDateInFuture:                     "leaver_date must not be in the future",
	JoinerDateInFuture:                     "joiner_date must not be in the future",
	LeaverDateBeforeJoinerDate:             "leaver_date must not be before joiner_date",
	StatusCodeNotPermitted:                 "status_code must be empty; use leaver_code",
	LeaverCodeNotPermitted:                 "leaver_code must be empty; use status_code",
	MissingCompaniesHouseNumber:            "companies_house_number is required for this organisation type",
	InvalidCompaniesHouseNumber:            "companies_house_number is not valid",
	OrganisationNotFoundForProducer:        "organisation_id does not belong to the submitting producer",
	CompaniesHouseNumberNotMatching:        "companies_house_number does not match the registered organisation",
	OrganisationNotSchemeMember:            "organisation_id is not a member of the compliance scheme",
	MissingBrandName:                       "brand_name is required",
	MissingBrandTypeCode:                   "brand_type_code is required",
	BrandDetailsNotMatchingOrganisation:    "brand organisation_id is not in the organisation file",
	BrandDetailsNotMatchingSubsidiary:      "brand subsidiary_id is not in the organisation file",
	MissingPartnerFirstName:                "partner first name is required",
	MissingPartnerLastName:                 "partner last name is required",
	MissingPartnerPhoneNumber:              "partner phone number is required",
	MissingPartnerEmail:                    "partner email is required",
	PartnerDetailsNotMatchingOrganisation:  "partner organisation_id is not in the organisation file",
	PartnerDetailsNotMatchingSubsidiary:    "partner subsidiary_id is not in the organisation file",
	InvalidFileHeaders:                     "file headers do not match the template",
	FileEmpty:                              "file has no data rows",
	InvalidFileFormat:                      "file could not be read as CSV",
}

// Description returns a short human readable explanation of the code.
func (c Code) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "unknown error code"
}
