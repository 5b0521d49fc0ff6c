package validation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/regvalidate/internal/directory"
	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/schema"
)

var fixedNow = func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) }

// orgRow builds a valid REG organisation row; overrides replace or clear fields.
func orgRow(t *testing.T, line int, org, sub string, overrides map[schema.Field]string) schema.Row {
	t.Helper()
	table := schema.Default().Table(schema.Organisation)
	fields := map[schema.Field]string{
		schema.OrganisationID:            org,
		schema.SubsidiaryID:              sub,
		schema.OrganisationName:          "Acme Ltd",
		schema.HomeNationCode:            "EN",
		schema.OrganisationTypeCode:      "REG",
		schema.CompaniesHouseNumber:      "01234567",
		schema.PackagingActivitySO:       "Primary",
		schema.PackagingActivityPF:       "No",
		schema.PackagingActivityIM:       "No",
		schema.PackagingActivitySE:       "No",
		schema.PackagingActivityHL:       "No",
		schema.PackagingActivityOM:       "No",
		schema.PackagingActivitySL:       "No",
		schema.TotalTonnage:              "10",
		schema.RegisteredAddressLine1:    "1 High Street",
		schema.RegisteredAddressPostcode: "LS1 1AA",
		schema.RegisteredAddressPhone:    "0113 000000",
		schema.PrimaryContactFirstName:   "Jo",
		schema.PrimaryContactLastName:    "Bloggs",
		schema.PrimaryContactPhone:       "0113 000000",
		schema.PrimaryContactEmail:       "jo@example.com",
	}
	for f, v := range overrides {
		fields[f] = v
	}
	values := make([]string, table.Len())
	for f, v := range fields {
		m, ok := table.Meta(f)
		if !ok {
			t.Fatalf("unknown field %s", f)
		}
		values[m.Index] = v
	}
	return schema.NewRow(table, line, values)
}

type fakeDirectory struct {
	byOrg      map[string][]directory.Organisation
	byProducer map[string][]directory.Organisation
	members    map[string][]directory.Organisation
	remaining  map[string]directory.Organisation
	err        error

	memberCalls    []string
	remainingCalls [][]string
}

func (f *fakeDirectory) GetByOrganisation(_ context.Context, id string) ([]directory.Organisation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byOrg[id], nil
}

func (f *fakeDirectory) GetByProducer(_ context.Context, id string) ([]directory.Organisation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byProducer[id], nil
}

func (f *fakeDirectory) GetComplianceSchemeMembers(_ context.Context, id, _ string) ([]directory.Organisation, error) {
	f.memberCalls = append(f.memberCalls, id)
	if f.err != nil {
		return nil, f.err
	}
	return f.members[id], nil
}

func (f *fakeDirectory) GetRemainingProducerDetails(_ context.Context, ids []string) ([]directory.Organisation, error) {
	f.remainingCalls = append(f.remainingCalls, ids)
	if f.err != nil {
		return nil, f.err
	}
	var out []directory.Organisation
	for _, id := range ids {
		if o, ok := f.remaining[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

type recordingObserver struct {
	phases   map[string]int
	degraded []string
}

func (o *recordingObserver) PhaseErrors(phase string, n int) {
	if o.phases == nil {
		o.phases = make(map[string]int)
	}
	o.phases[phase] += n
}

func (o *recordingObserver) CrossReferenceDegraded(mode string) { o.degraded = append(o.degraded, mode) }

func codes(errs []rules.ValidationError) []rules.Code {
	var out []rules.Code
	for _, e := range errs {
		for _, ce := range e.ColumnErrors {
			out = append(out, ce.ErrorCode)
		}
	}
	return out
}

func rowNumbers(errs []rules.ValidationError) []int {
	var out []int
	for _, e := range errs {
		out = append(out, e.RowNumber)
	}
	return out
}

func TestValidateOrganisations_ValidFile(t *testing.T) {
	rows := []schema.Row{
		orgRow(t, 2, "100", "", nil),
		orgRow(t, 3, "100", "1", nil),
	}
	v := New(DefaultMode(), nil, WithClock(fixedNow))
	errs, err := v.ValidateOrganisations(context.Background(), rows, Submitter{ProducerID: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("got errors %v", codes(errs))
	}
}

func TestValidateOrganisations_ErrorLimit(t *testing.T) {
	// Each row is missing name, home nation and tonnage: three column errors.
	bad := map[schema.Field]string{schema.OrganisationName: "", schema.HomeNationCode: "", schema.TotalTonnage: ""}

	tests := []struct {
		name  string
		limit int
		rows  int
		want  int
	}{
		{"under limit", 100, 4, 12 + 3},
		{"exact limit", 12, 4, 12},
		{"truncated mid row", 7, 4, 7},
		{"limit of one", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []schema.Row
			for i := 0; i < tt.rows; i++ {
				// All rows share a key so the duplicate phase has work too.
				rows = append(rows, orgRow(t, i+2, "100", "", bad))
			}
			mode := DefaultMode()
			mode.ErrorLimit = tt.limit

			errs, err := New(mode, nil, WithClock(fixedNow)).ValidateOrganisations(context.Background(), rows, Submitter{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := rules.CountColumnErrors(errs)
			if got != tt.want {
				t.Errorf("column errors = %d, want %d", got, tt.want)
			}
			if got > tt.limit {
				t.Errorf("column errors %d exceed limit %d", got, tt.limit)
			}
		})
	}
}

func TestValidateOrganisations_TruncatedRowStopsLaterPhases(t *testing.T) {
	bad := map[schema.Field]string{schema.OrganisationName: "", schema.HomeNationCode: ""}
	rows := []schema.Row{
		orgRow(t, 2, "100", "", bad),
		orgRow(t, 3, "100", "", bad),
	}
	mode := DefaultMode()
	mode.ErrorLimit = 3

	errs, _ := New(mode, nil, WithClock(fixedNow)).ValidateOrganisations(context.Background(), rows, Submitter{})
	if want := []int{2, 3}; !slices.Equal(rowNumbers(errs), want) {
		t.Fatalf("rows = %v, want %v", rowNumbers(errs), want)
	}
	if len(errs[1].ColumnErrors) != 1 {
		t.Errorf("second row has %d column errors, want 1 (truncated)", len(errs[1].ColumnErrors))
	}
	if slices.Contains(codes(errs), rules.DuplicateOrganisationIDSubsidiaryID) {
		t.Error("duplicate phase ran after budget exhaustion")
	}
}

func TestValidateOrganisations_Duplicates(t *testing.T) {
	rows := []schema.Row{
		orgRow(t, 2, "100", "", nil),
		orgRow(t, 3, "100", "1", nil),
		orgRow(t, 4, "100", "", nil),
		orgRow(t, 5, "100", "", map[schema.Field]string{schema.OrganisationName: ""}),
		orgRow(t, 6, "100", "1", nil),
		orgRow(t, 7, "200", "", nil),
	}

	errs, err := New(DefaultMode(), nil, WithClock(fixedNow)).ValidateOrganisations(context.Background(), rows, Submitter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Row 5 has its own row-rule error plus a duplicate error.
	wantCodes := []rules.Code{
		rules.MissingOrganisationName,
		rules.DuplicateOrganisationIDSubsidiaryID,
		rules.DuplicateOrganisationIDSubsidiaryID,
		rules.DuplicateOrganisationIDSubsidiaryID,
	}
	if got := codes(errs); !slices.Equal(got, wantCodes) {
		t.Errorf("codes = %v, want %v", got, wantCodes)
	}
	if got, want := rowNumbers(errs), []int{5, 4, 5, 6}; !slices.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestValidateOrganisations_Hierarchy(t *testing.T) {
	noRowRules := DefaultMode()
	noRowRules.RowRules = false
	sub := func(code string) map[schema.Field]string {
		return map[schema.Field]string{schema.OrganisationSubTypeCode: code}
	}

	tests := []struct {
		name     string
		rows     func(t *testing.T) []schema.Row
		wantRows []int
	}{
		{
			"licensor with licensee",
			func(t *testing.T) []schema.Row {
				return []schema.Row{orgRow(t, 2, "100", "", sub("LIC")), orgRow(t, 3, "100", "1", sub("LIE"))}
			},
			nil,
		},
		{
			"licensor without child",
			func(t *testing.T) []schema.Row {
				return []schema.Row{orgRow(t, 2, "100", "", sub("LIC")), orgRow(t, 3, "100", "1", sub("SUB"))}
			},
			[]int{2},
		},
		{
			"child under another organisation",
			func(t *testing.T) []schema.Row {
				return []schema.Row{orgRow(t, 2, "100", "", sub("FRA")), orgRow(t, 3, "200", "1", sub("FRE"))}
			},
			[]int{2},
		},
		{
			"child row must have subsidiary id",
			func(t *testing.T) []schema.Row {
				return []schema.Row{orgRow(t, 2, "100", "", sub("POB")), orgRow(t, 3, "100", "", sub("TEN"))}
			},
			[]int{2},
		},
		{
			"every unmatched head reported",
			func(t *testing.T) []schema.Row {
				return []schema.Row{orgRow(t, 2, "100", "", sub("pob")), orgRow(t, 3, "300", "", sub("LIC"))}
			},
			[]int{2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := New(noRowRules, nil).ValidateOrganisations(context.Background(), tt.rows(t), Submitter{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []int
			for _, e := range errs {
				if e.ColumnErrors[0].ErrorCode == rules.HeadOrganisationMissingSubOrganisation {
					got = append(got, e.RowNumber)
				}
			}
			if !slices.Equal(got, tt.wantRows) {
				t.Errorf("head rows = %v, want %v", got, tt.wantRows)
			}
		})
	}
}

func crossRefMode() Mode {
	m := DefaultMode()
	m.RowRules = false
	m.CrossReference = true
	return m
}

func TestCrossReference_Producer(t *testing.T) {
	dir := &fakeDirectory{
		byProducer: map[string][]directory.Organisation{
			"p1": {{ReferenceNumber: "100"}, {ReferenceNumber: "200"}},
		},
		byOrg: map[string][]directory.Organisation{
			"100": {{ReferenceNumber: "100", CompaniesHouseNumber: "01234567"}},
			"200": {{ReferenceNumber: "200", CompaniesHouseNumber: "99999999"}},
			"300": {{ReferenceNumber: "300"}},
		},
	}
	rows := []schema.Row{
		orgRow(t, 2, "100", "", nil),
		orgRow(t, 3, "100", "1", map[schema.Field]string{schema.CompaniesHouseNumber: "SUB00001"}),
		orgRow(t, 4, "200", "", nil),
		orgRow(t, 5, "300", "", nil),
		orgRow(t, 6, "400", "", nil),
	}

	errs, err := New(crossRefMode(), dir).ValidateOrganisations(context.Background(), rows, Submitter{ProducerID: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := rowNumbers(errs), []int{4, 5, 6}; !slices.Equal(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}

	mismatch := errs[0].ColumnErrors
	if len(mismatch) != 2 {
		t.Fatalf("companies house mismatch has %d column errors, want 2", len(mismatch))
	}
	if mismatch[0].ColumnName != "organisation_id" || mismatch[1].ColumnName != "companies_house_number" {
		t.Errorf("mismatch columns = %s, %s", mismatch[0].ColumnName, mismatch[1].ColumnName)
	}
	for _, ce := range mismatch {
		if ce.ErrorCode != rules.CompaniesHouseNumberNotMatching {
			t.Errorf("code = %s, want %s", ce.ErrorCode, rules.CompaniesHouseNumberNotMatching)
		}
	}
	// 300 exists but is not the producer's; 400 does not exist.
	for _, e := range errs[1:] {
		if e.ColumnErrors[0].ErrorCode != rules.OrganisationNotFoundForProducer {
			t.Errorf("row %d code = %s", e.RowNumber, e.ColumnErrors[0].ErrorCode)
		}
	}
}

func TestCrossReference_ComplianceSchemeFallback(t *testing.T) {
	dir := &fakeDirectory{
		members: map[string][]directory.Organisation{
			"100": {{ReferenceNumber: "100"}},
		},
		remaining: map[string]directory.Organisation{
			"200": {ReferenceNumber: "200"},
		},
	}
	rows := []schema.Row{
		orgRow(t, 2, "100", "", nil),
		orgRow(t, 3, "200", "", nil),
		orgRow(t, 4, "200", "1", nil),
		orgRow(t, 5, "300", "", nil),
		orgRow(t, 6, "300", "1", nil),
	}
	obs := &recordingObserver{}

	errs, err := New(crossRefMode(), dir, WithObserver(obs)).ValidateOrganisations(context.Background(), rows,
		Submitter{ProducerID: "cs-org", ComplianceSchemeID: "cs1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 200 is resolved by the batch call and must not be reported.
	if got, want := rowNumbers(errs), []int{5, 6}; !slices.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	for _, c := range codes(errs) {
		if c != rules.OrganisationNotSchemeMember {
			t.Errorf("code = %s", c)
		}
	}
	if want := []string{"100", "200", "300"}; !slices.Equal(dir.memberCalls, want) {
		t.Errorf("member lookups = %v, want %v", dir.memberCalls, want)
	}
	if len(dir.remainingCalls) != 1 || !slices.Equal(dir.remainingCalls[0], []string{"200", "300"}) {
		t.Errorf("remaining calls = %v, want one call with [200 300]", dir.remainingCalls)
	}
	if obs.phases[PhaseCrossReference] != 2 {
		t.Errorf("observer saw %d cross-reference errors, want 2", obs.phases[PhaseCrossReference])
	}
}

func TestCrossReference_NoBatchWhenAllResolved(t *testing.T) {
	dir := &fakeDirectory{members: map[string][]directory.Organisation{"100": {{ReferenceNumber: "100"}}}}
	rows := []schema.Row{orgRow(t, 2, "100", "", nil)}

	errs, err := New(crossRefMode(), dir).ValidateOrganisations(context.Background(), rows, Submitter{ComplianceSchemeID: "cs1"})
	if err != nil || len(errs) != 0 {
		t.Fatalf("errs = %v, err = %v", errs, err)
	}
	if len(dir.remainingCalls) != 0 {
		t.Errorf("unexpected batch call %v", dir.remainingCalls)
	}
}

func TestCrossReference_TransportErrorDegrades(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	dir := &fakeDirectory{err: &directory.TransportError{Op: "get by producer", StatusCode: 503, Err: errors.New("unavailable")}}
	obs := &recordingObserver{}
	rows := []schema.Row{
		orgRow(t, 2, "100", "", nil),
		orgRow(t, 3, "100", "", nil),
	}

	errs, err := New(crossRefMode(), dir, WithObserver(obs)).ValidateOrganisations(context.Background(), rows, Submitter{ProducerID: "p1"})
	if err != nil {
		t.Fatalf("transport error must not propagate: %v", err)
	}
	// The duplicate found before the directory call still stands.
	if got := codes(errs); !slices.Equal(got, []rules.Code{rules.DuplicateOrganisationIDSubsidiaryID}) {
		t.Errorf("codes = %v", got)
	}
	if !slices.Equal(obs.degraded, []string{"producer"}) {
		t.Errorf("degraded = %v", obs.degraded)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestCrossReference_OtherErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	dir := &fakeDirectory{err: boom}
	rows := []schema.Row{orgRow(t, 2, "100", "", nil)}

	_, err := New(crossRefMode(), dir).ValidateOrganisations(context.Background(), rows, Submitter{ComplianceSchemeID: "cs1"})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestCrossReference_DisabledOrNoDirectory(t *testing.T) {
	rows := []schema.Row{orgRow(t, 2, "100", "", nil)}
	dir := &fakeDirectory{err: errors.New("should not be called")}

	off := crossRefMode()
	off.CrossReference = false
	if _, err := New(off, dir).ValidateOrganisations(context.Background(), rows, Submitter{}); err != nil {
		t.Errorf("disabled cross-reference called directory: %v", err)
	}
	if _, err := New(crossRefMode(), nil).ValidateOrganisations(context.Background(), rows, Submitter{}); err != nil {
		t.Errorf("nil directory: %v", err)
	}
}

func TestValidateBrands(t *testing.T) {
	table := schema.Default().Table(schema.Brand)
	brand := func(line int, org, sub string) schema.Row {
		return schema.NewRow(table, line, []string{org, sub, "Acme", "BN"})
	}
	lookup := rules.BuildLookup([]schema.Row{orgRow(t, 2, "100", "1", nil)})

	errs := New(DefaultMode(), nil).ValidateBrands(context.Background(), []schema.Row{
		brand(2, "100", ""),
		brand(3, "100", "9"),
		brand(4, "555", ""),
	}, lookup)

	want := []rules.Code{rules.BrandDetailsNotMatchingSubsidiary, rules.BrandDetailsNotMatchingOrganisation}
	if got := codes(errs); !slices.Equal(got, want) {
		t.Errorf("codes = %v, want %v", got, want)
	}
	if got := rowNumbers(errs); !slices.Equal(got, []int{3, 4}) {
		t.Errorf("rows = %v", got)
	}
}

func TestValidatePartners_ErrorLimit(t *testing.T) {
	table := schema.Default().Table(schema.Partner)
	var rows []schema.Row
	for i := 0; i < 10; i++ {
		rows = append(rows, schema.NewRow(table, i+2, []string{"100", "", "", "", "", ""}))
	}
	mode := DefaultMode()
	mode.ErrorLimit = 6

	errs := New(mode, nil).ValidatePartners(context.Background(), rows, nil)
	if n := rules.CountColumnErrors(errs); n != 6 {
		t.Errorf("column errors = %d, want 6", n)
	}
}

func TestMode_Limit(t *testing.T) {
	if (Mode{}).limit() != DefaultErrorLimit {
		t.Error("zero limit should fall back to the default")
	}
	if (Mode{ErrorLimit: 5}).limit() != 5 {
		t.Error("explicit limit ignored")
	}
}
