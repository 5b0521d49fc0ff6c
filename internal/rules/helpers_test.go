package rules

import (
	"slices"
	"testing"
	"time"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

// validOrganisation is a parent REG row that passes every organisation rule.
func validOrganisation() map[schema.Field]string {
	return map[schema.Field]string{
		schema.OrganisationID:            "100",
		schema.OrganisationName:          "Acme Ltd",
		schema.HomeNationCode:            "EN",
		schema.OrganisationTypeCode:      "REG",
		schema.CompaniesHouseNumber:      "01234567",
		schema.MainActivitySic:           "12345",
		schema.RegistrationTypeCode:      "GR",
		schema.PackagingActivitySO:       "Primary",
		schema.PackagingActivityPF:       "No",
		schema.PackagingActivityIM:       "No",
		schema.PackagingActivitySE:       "No",
		schema.PackagingActivityHL:       "No",
		schema.PackagingActivityOM:       "No",
		schema.PackagingActivitySL:       "No",
		schema.Turnover:                  "1000.50",
		schema.TotalTonnage:              "10",
		schema.ProduceBlankPackagingFlag: "No",
		schema.RegisteredAddressLine1:    "1 High Street",
		schema.RegisteredAddressPostcode: "LS1 1AA",
		schema.RegisteredAddressPhone:    "01234 567890",
		schema.PrimaryContactFirstName:   "Jo",
		schema.PrimaryContactLastName:    "Bloggs",
		schema.PrimaryContactPhone:       "+44 (0)1234 567890",
		schema.PrimaryContactEmail:       "jo@example.com",
	}
}

// orgRow builds an organisation row from the valid baseline with overrides
// applied. An empty override clears the field.
func orgRow(t *testing.T, overrides map[schema.Field]string) schema.Row {
	t.Helper()
	table := schema.Default().Table(schema.Organisation)
	fields := validOrganisation()
	for f, v := range overrides {
		fields[f] = v
	}
	values := make([]string, table.Len())
	for f, v := range fields {
		m, ok := table.Meta(f)
		if !ok {
			t.Fatalf("field %s not in organisation layout", f)
		}
		values[m.Index] = v
	}
	return schema.NewRow(table, 2, values)
}

func brandRow(org, sub string) schema.Row {
	return schema.NewRow(schema.Default().Table(schema.Brand), 2, []string{org, sub, "Acme", "BN"})
}

func partnerRow(values ...string) schema.Row {
	return schema.NewRow(schema.Default().Table(schema.Partner), 2, values)
}

func codesOf(errs []ColumnError) []Code {
	out := make([]Code, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.ErrorCode)
	}
	return out
}

func assertCodes(t *testing.T, errs []ColumnError, want ...Code) {
	t.Helper()
	got := codesOf(errs)
	if want == nil {
		want = []Code{}
	}
	if !slices.Equal(got, want) {
		t.Errorf("codes = %v, want %v", got, want)
	}
}
