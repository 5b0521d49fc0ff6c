package rules

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9 +()\-]+$`)
)

// Leading characters a spreadsheet would evaluate as a formula.
const formulaPrefixes = "=+@"

func noFormulaPrefix(v string) bool {
	return !strings.ContainsAny(v[:1], formulaPrefixes)
}

func safeText(f schema.Field) Rule {
	return matches(f, InvalidCharacters, noFormulaPrefix)
}

func emailFormat(f schema.Field) Rule {
	return matches(f, InvalidEmailAddress, emailPattern.MatchString)
}

func phoneFormat(f schema.Field) Rule {
	return matches(f, InvalidPhoneNumber, phonePattern.MatchString)
}

var (
	nameFields = []schema.Field{
		schema.SoleTraderFirstName, schema.SoleTraderLastName,
		schema.ApprovedPersonFirstName, schema.ApprovedPersonLastName,
		schema.DelegatedPersonFirstName, schema.DelegatedPersonLastName,
		schema.PrimaryContactFirstName, schema.PrimaryContactLastName,
		schema.SecondaryContactFirstName, schema.SecondaryContactLastName,
	}
	emailFields = []schema.Field{
		schema.SoleTraderEmail, schema.ApprovedPersonEmail, schema.DelegatedPersonEmail,
		schema.PrimaryContactEmail, schema.SecondaryContactEmail,
	}
	phoneFields = []schema.Field{
		schema.RegisteredAddressPhone, schema.PrincipalAddressPhone, schema.ServiceOfNoticePhone,
		schema.SoleTraderPhone, schema.ApprovedPersonPhone, schema.DelegatedPersonPhone,
		schema.PrimaryContactPhone, schema.SecondaryContactPhone,
	}
)

// contactRules covers the sole trader and primary contact requirements plus
// the format of every name, email and phone column.
func contactRules() []Rule {
	soleTrader := func(row schema.Row, ctx Context) bool {
		return isParent(row, ctx) && organisationType(row) == TypeSoleTrader
	}

	rs := []Rule{
		requiredWhen(schema.SoleTraderFirstName, MissingSoleTraderFirstName, soleTrader),
		requiredWhen(schema.SoleTraderLastName, MissingSoleTraderLastName, soleTrader),
		requiredWhen(schema.PrimaryContactFirstName, MissingPrimaryContactFirstName, isParent),
		requiredWhen(schema.PrimaryContactLastName, MissingPrimaryContactLastName, isParent),
		requiredWhen(schema.PrimaryContactPhone, MissingPrimaryContactPhoneNumber, isParent),
		requiredWhen(schema.PrimaryContactEmail, MissingPrimaryContactEmail, isParent),
	}
	for _, f := range nameFields {
		rs = append(rs, safeText(f))
	}
	for _, f := range emailFields {
		rs = append(rs, emailFormat(f))
	}
	for _, f := range phoneFields {
		rs = append(rs, phoneFormat(f))
	}
	return rs
}
