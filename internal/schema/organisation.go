package schema

// Identity fields shared by every row type.
const (
	OrganisationID Field = "OrganisationId"
	SubsidiaryID   Field = "SubsidiaryId"
)

// Organisation file fields.
const (
	OrganisationName           Field = "OrganisationName"
	TradingName                Field = "TradingName"
	CompaniesHouseNumber       Field = "CompaniesHouseNumber"
	HomeNationCode             Field = "HomeNationCode"
	MainActivitySic            Field = "MainActivitySic"
	OrganisationTypeCode       Field = "OrganisationTypeCode"
	OrganisationSubTypeCode    Field = "OrganisationSubTypeCode"
	PackagingActivitySO        Field = "PackagingActivitySO"
	PackagingActivityPF        Field = "PackagingActivityPF"
	PackagingActivityIM        Field = "PackagingActivityIM"
	PackagingActivitySE        Field = "PackagingActivitySE"
	PackagingActivityHL        Field = "PackagingActivityHL"
	PackagingActivityOM        Field = "PackagingActivityOM"
	PackagingActivitySL        Field = "PackagingActivitySL"
	RegistrationTypeCode       Field = "RegistrationTypeCode"
	Turnover                   Field = "Turnover"
	TotalTonnage               Field = "TotalTonnage"
	ProduceBlankPackagingFlag  Field = "ProduceBlankPackagingFlag"
	LiabilityIndicator         Field = "LiabilityIndicator"
	AuditAddressLine1          Field = "AuditAddressLine1"
	AuditAddressLine2          Field = "AuditAddressLine2"
	AuditAddressCity           Field = "AuditAddressCity"
	AuditAddressCounty         Field = "AuditAddressCounty"
	AuditAddressPostcode       Field = "AuditAddressPostcode"
	AuditAddressCountry        Field = "AuditAddressCountry"
	ServiceOfNoticeLine1       Field = "ServiceOfNoticeAddressLine1"
	ServiceOfNoticeLine2       Field = "ServiceOfNoticeAddressLine2"
	ServiceOfNoticeCity        Field = "ServiceOfNoticeAddressCity"
	ServiceOfNoticeCounty      Field = "ServiceOfNoticeAddressCounty"
	ServiceOfNoticePostcode    Field = "ServiceOfNoticeAddressPostcode"
	ServiceOfNoticeCountry     Field = "ServiceOfNoticeAddressCountry"
	ServiceOfNoticePhone       Field = "ServiceOfNoticeAddressPhoneNumber"
	PrincipalAddressLine1      Field = "PrincipalAddressLine1"
	PrincipalAddressLine2      Field = "PrincipalAddressLine2"
	PrincipalAddressCity       Field = "PrincipalAddressCity"
	PrincipalAddressCounty     Field = "PrincipalAddressCounty"
	PrincipalAddressPostcode   Field = "PrincipalAddressPostcode"
	PrincipalAddressCountry    Field = "PrincipalAddressCountry"
	PrincipalAddressPhone      Field = "PrincipalAddressPhoneNumber"
	RegisteredAddressLine1     Field = "RegisteredAddressLine1"
	RegisteredAddressLine2     Field = "RegisteredAddressLine2"
	RegisteredAddressCity      Field = "RegisteredAddressCity"
	RegisteredAddressCounty    Field = "RegisteredAddressCounty"
	RegisteredAddressPostcode  Field = "RegisteredAddressPostcode"
	RegisteredAddressCountry   Field = "RegisteredAddressCountry"
	RegisteredAddressPhone     Field = "RegisteredAddressPhoneNumber"
	SoleTraderFirstName        Field = "SoleTraderFirstName"
	SoleTraderLastName         Field = "SoleTraderLastName"
	SoleTraderPhone            Field = "SoleTraderPhoneNumber"
	SoleTraderEmail            Field = "SoleTraderEmail"
	ApprovedPersonFirstName    Field = "ApprovedPersonFirstName"
	ApprovedPersonLastName     Field = "ApprovedPersonLastName"
	ApprovedPersonPhone        Field = "ApprovedPersonPhoneNumber"
	ApprovedPersonEmail        Field = "ApprovedPersonEmail"
	ApprovedPersonJobTitle     Field = "ApprovedPersonJobTitle"
	DelegatedPersonFirstName   Field = "DelegatedPersonFirstName"
	DelegatedPersonLastName    Field = "DelegatedPersonLastName"
	DelegatedPersonPhone       Field = "DelegatedPersonPhoneNumber"
	DelegatedPersonEmail       Field = "DelegatedPersonEmail"
	DelegatedPersonJobTitle    Field = "DelegatedPersonJobTitle"
	PrimaryContactFirstName    Field = "PrimaryContactPersonFirstName"
	PrimaryContactLastName     Field = "PrimaryContactPersonLastName"
	PrimaryContactPhone        Field = "PrimaryContactPersonPhoneNumber"
	PrimaryContactEmail        Field = "PrimaryContactPersonEmail"
	PrimaryContactJobTitle     Field = "PrimaryContactPersonJobTitle"
	SecondaryContactFirstName  Field = "SecondaryContactPersonFirstName"
	SecondaryContactLastName   Field = "SecondaryContactPersonLastName"
	SecondaryContactPhone      Field = "SecondaryContactPersonPhoneNumber"
	SecondaryContactEmail      Field = "SecondaryContactPersonEmail"
	SecondaryContactJobTitle   Field = "SecondaryContactPersonJobTitle"
	StatusCode                 Field = "StatusCode"
	LeaverCode                 Field = "LeaverCode"
	LeaverDate                 Field = "LeaverDate"
	OrganisationChangeReason   Field = "OrganisationChangeReason"
	JoinerDate                 Field = "JoinerDate"
	OrganisationSize           Field = "OrganisationSize"
)

// PackagingActivities lists the seven activity fields in column order.
var PackagingActivities = []Field{
	PackagingActivitySO,
	PackagingActivityPF,
	PackagingActivityIM,
	PackagingActivitySE,
	PackagingActivityHL,
	PackagingActivityOM,
	PackagingActivitySL,
}

var organisationColumns = []Column{
	{Field: OrganisationID, Name: "organisation_id"},
	{Field: SubsidiaryID, Name: "subsidiary_id"},
	{Field: OrganisationName, Name: "organisation_name"},
	{Field: TradingName, Name: "trading_name"},
	{Field: CompaniesHouseNumber, Name: "companies_house_number"},
	{Field: HomeNationCode, Name: "home_nation_code"},
	{Field: MainActivitySic, Name: "main_activity_sic"},
	{Field: OrganisationTypeCode, Name: "organisation_type_code"},
	{Field: OrganisationSubTypeCode, Name: "organisation_sub_type_code"},
	{Field: PackagingActivitySO, Name: "packaging_activity_so"},
	{Field: PackagingActivityPF, Name: "packaging_activity_pf"},
	{Field: PackagingActivityIM, Name: "packaging_activity_im"},
	{Field: PackagingActivitySE, Name: "packaging_activity_se"},
	{Field: PackagingActivityHL, Name: "packaging_activity_hl"},
	{Field: PackagingActivityOM, Name: "packaging_activity_om"},
	{Field: PackagingActivitySL, Name: "packaging_activity_sl"},
	{Field: RegistrationTypeCode, Name: "registration_type_code"},
	{Field: Turnover, Name: "turnover"},
	{Field: TotalTonnage, Name: "total_tonnage"},
	{Field: ProduceBlankPackagingFlag, Name: "produce_blank_packaging_flag"},
	{Field: LiabilityIndicator, Name: "liability_indicator"},
	{Field: AuditAddressLine1, Name: "audit_address_line_1"},
	{Field: AuditAddressLine2, Name: "audit_address_line_2"},
	{Field: AuditAddressCity, Name: "audit_address_city"},
	{Field: AuditAddressCounty, Name: "audit_address_county"},
	{Field: AuditAddressPostcode, Name: "audit_address_postcode"},
	{Field: AuditAddressCountry, Name: "audit_address_country"},
	{Field: ServiceOfNoticeLine1, Name: "service_of_notice_address_line_1"},
	{Field: ServiceOfNoticeLine2, Name: "service_of_notice_address_line_2"},
	{Field: ServiceOfNoticeCity, Name: "service_of_notice_address_city"},
	{Field: ServiceOfNoticeCounty, Name: "service_of_notice_address_county"},
	{Field: ServiceOfNoticePostcode, Name: "service_of_notice_address_postcode"},
	{Field: ServiceOfNoticeCountry, Name: "service_of_notice_address_country"},
	{Field: ServiceOfNoticePhone, Name: "service_of_notice_address_phone_number"},
	{Field: PrincipalAddressLine1, Name: "principal_address_line_1"},
	{Field: PrincipalAddressLine2, Name: "principal_address_line_2"},
	{Field: PrincipalAddressCity, Name: "principal_address_city"},
	{Field: PrincipalAddressCounty, Name: "principal_address_county"},
	{Field: PrincipalAddressPostcode, Name: "principal_address_postcode"},
	{Field: PrincipalAddressCountry, Name: "principal_address_country"},
	{Field: PrincipalAddressPhone, Name: "principal_address_phone_number"},
	{Field: RegisteredAddressLine1, Name: "registered_addr_line1"},
	{Field: RegisteredAddressLine2, Name: "registered_addr_line2"},
	{Field: RegisteredAddressCity, Name: "registered_city"},
	{Field: RegisteredAddressCounty, Name: "registered_addr_county"},
	{Field: RegisteredAddressPostcode, Name: "registered_addr_postcode"},
	{Field: RegisteredAddressCountry, Name: "registered_addr_country"},
	{Field: RegisteredAddressPhone, Name: "registered_addr_phone_number"},
	{Field: SoleTraderFirstName, Name: "sole_trader_first_name"},
	{Field: SoleTraderLastName, Name: "sole_trader_last_name"},
	{Field: SoleTraderPhone, Name: "sole_trader_phone_number"},
	{Field: SoleTraderEmail, Name: "sole_trader_email"},
	{Field: ApprovedPersonFirstName, Name: "approved_person_first_name"},
	{Field: ApprovedPersonLastName, Name: "approved_person_last_name"},
	{Field: ApprovedPersonPhone, Name: "approved_person_phone_number"},
	{Field: ApprovedPersonEmail, Name: "approved_person_email"},
	{Field: ApprovedPersonJobTitle, Name: "approved_person_job_title"},
	{Field: DelegatedPersonFirstName, Name: "delegated_person_first_name"},
	{Field: DelegatedPersonLastName, Name: "delegated_person_last_name"},
	{Field: DelegatedPersonPhone, Name: "delegated_person_phone_number"},
	{Field: DelegatedPersonEmail, Name: "delegated_person_email"},
	{Field: DelegatedPersonJobTitle, Name: "delegated_person_job_title"},
	{Field: PrimaryContactFirstName, Name: "primary_contact_person_first_name"},
	{Field: PrimaryContactLastName, Name: "primary_contact_person_last_name"},
	{Field: PrimaryContactPhone, Name: "primary_contact_person_phone_number"},
	{Field: PrimaryContactEmail, Name: "primary_contact_person_email"},
	{Field: PrimaryContactJobTitle, Name: "primary_contact_person_job_title"},
	{Field: SecondaryContactFirstName, Name: "secondary_contact_person_first_name"},
	{Field: SecondaryContactLastName, Name: "secondary_contact_person_last_name"},
	{Field: SecondaryContactPhone, Name: "secondary_contact_person_phone_number"},
	{Field: SecondaryContactEmail, Name: "secondary_contact_person_email"},
	{Field: SecondaryContactJobTitle, Name: "secondary_contact_person_job_title"},
	{Field: StatusCode, Name: "status_code"},
	{Field: LeaverCode, Name: "leaver_code"},
	{Field: LeaverDate, Name: "leaver_date"},
	{Field: OrganisationChangeReason, Name: "organisation_change_reason"},
	{Field: JoinerDate, Name: "joiner_date"},
	{Field: OrganisationSize, Name: "organisation_size"},
}
