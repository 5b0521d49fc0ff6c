package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

func brandHeader() string {
	return strings.Join(schema.Default().Names(schema.Brand), ",")
}

func TestParse_Brands(t *testing.T) {
	input := brandHeader() + "\n" +
		"100, 1 ,Acme,BN\n" +
		"\"200\",,\"Widgets, Ltd\",BN\n"

	rows, err := Parse(strings.NewReader(input), schema.Brand, ModeFull)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0].LineNumber != 2 || rows[1].LineNumber != 3 {
		t.Errorf("line numbers = %d,%d want 2,3", rows[0].LineNumber, rows[1].LineNumber)
	}
	if rows[0].SubsidiaryID() != "1" {
		t.Errorf("cell not trimmed: %q", rows[0].SubsidiaryID())
	}
	if rows[1].Get(schema.BrandName) != "Widgets, Ltd" {
		t.Errorf("quoted cell = %q", rows[1].Get(schema.BrandName))
	}
}

func TestParse_SourceErrorAfterRows(t *testing.T) {
	input := brandHeader() + "\n" +
		"100,,Acme,BN\n" +
		"200,,Widgets,BN\n"
	src := &droppingReader{data: []byte(input), err: errConnReset}

	rows, err := Parse(src, schema.Brand, ModeFull)
	if !errors.Is(err, errConnReset) {
		t.Fatalf("Parse() error = %v, want %v", err, errConnReset)
	}
	if rows != nil {
		t.Errorf("got %d rows from a truncated stream", len(rows))
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	rows, err := Parse(strings.NewReader(brandHeader()+"\n"), schema.Brand, ModeFull)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("got %v, want empty non-nil slice", rows)
	}
}

func TestParse_EmptyStream(t *testing.T) {
	_, err := Parse(strings.NewReader(""), schema.Brand, ModeFull)
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("err = %v, want ErrEmptyFile", err)
	}
}

func TestParse_HeaderMismatch(t *testing.T) {
	names := schema.Default().Names(schema.Brand)

	swapped := make([]string, len(names))
	copy(swapped, names)
	swapped[2], swapped[3] = swapped[3], swapped[2]

	tests := []struct {
		name   string
		header string
	}{
		{"reordered", strings.Join(swapped, ",")},
		{"missing column", strings.Join(names[:3], ",")},
		{"extra column", strings.Join(append(append([]string{}, names...), "extra"), ",")},
		{"renamed column", strings.Replace(strings.Join(names, ","), "brand_name", "brand", 1)},
		{"different case", strings.ToUpper(strings.Join(names, ","))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.header+"\n1,,a,b\n"), schema.Brand, ModeFull)
			if !errors.Is(err, ErrHeaderMismatch) {
				t.Errorf("err = %v, want ErrHeaderMismatch", err)
			}
		})
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantLine int
	}{
		{"too few fields", "100,,Acme\n", 2},
		{"too many fields", "100,,Acme,BN,extra\n", 2},
		{"bare quote", "100,,Ac\"me,BN\n", 2},
		{"unterminated quote", "100,,\"Acme,BN\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(brandHeader()+"\n"+tt.body), schema.Brand, ModeFull)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}

func TestParse_IdentityMode(t *testing.T) {
	input := brandHeader() + "\n100,7,Acme,BN\n"

	rows, err := Parse(strings.NewReader(input), schema.Brand, ModeIdentity)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.OrganisationID() != "100" || r.SubsidiaryID() != "7" {
		t.Errorf("identity = %q/%q, want 100/7", r.OrganisationID(), r.SubsidiaryID())
	}
	if r.Get(schema.BrandName) != "" {
		t.Errorf("identity mode kept BrandName = %q", r.Get(schema.BrandName))
	}
	if r.LineNumber != 2 {
		t.Errorf("LineNumber = %d, want 2", r.LineNumber)
	}
}

func TestParse_IdentityModeStillChecksHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("organisation_id,subsidiary_id\n1,2\n"), schema.Brand, ModeIdentity)
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Errorf("err = %v, want ErrHeaderMismatch", err)
	}
}

func TestParse_BOMAndInvalidUTF8(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(brandHeader()+"\n100,,Ac\x80me,BN\n")...)

	rows, err := Parse(strings.NewReader(string(input)), schema.Brand, ModeFull)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := rows[0].Get(schema.BrandName); got != "Ac?me" {
		t.Errorf("BrandName = %q, want %q", got, "Ac?me")
	}
}

func TestParse_UnknownRowType(t *testing.T) {
	_, err := Parse(strings.NewReader("a\n"), schema.RowType("nope"), ModeFull)
	if !errors.Is(err, ErrUnknownRowType) {
		t.Errorf("err = %v, want ErrUnknownRowType", err)
	}
}

func TestParser_BytesRead(t *testing.T) {
	input := brandHeader() + "\n100,,Acme,BN\n"
	res, err := NewParser(nil).Parse(strings.NewReader(input), schema.Brand, ModeFull)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", res.BytesRead, len(input))
	}
}
