package schema

// Brand file fields.
const (
	BrandName     Field = "BrandName"
	BrandTypeCode Field = "BrandTypeCode"
)

// Partner file fields.
const (
	PartnerFirstName Field = "PartnerFirstName"
	PartnerLastName  Field = "PartnerLastName"
	PartnerPhone     Field = "PartnerPhoneNumber"
	PartnerEmail     Field = "PartnerEmail"
)

var brandColumns = []Column{
	{Field: OrganisationID, Name: "organisation_id"},
	{Field: SubsidiaryID, Name: "subsidiary_id"},
	{Field: BrandName, Name: "brand_name"},
	{Field: BrandTypeCode, Name: "brand_type_code"},
}

var partnerColumns = []Column{
	{Field: OrganisationID, Name: "organisation_id"},
	{Field: SubsidiaryID, Name: "subsidiary_id"},
	{Field: PartnerFirstName, Name: "partner_first_name"},
	{Field: PartnerLastName, Name: "partner_last_name"},
	{Field: PartnerPhone, Name: "partner_phone_number"},
	{Field: PartnerEmail, Name: "partner_email"},
}
