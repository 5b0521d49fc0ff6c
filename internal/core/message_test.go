package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/JonMunkholm/regvalidate/internal/ingest"
	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/schema"
)

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr string
	}{
		{name: "valid producer message", mutate: func(*Message) {}},
		{name: "valid scheme message", mutate: func(m *Message) { m.ComplianceSchemeID = testOrg }},
		{name: "missing blob", mutate: func(m *Message) { m.BlobName = " " }, wantErr: "blobName is required"},
		{name: "unknown sub-type", mutate: func(m *Message) { m.SubmissionSubType = "Accounts" }, wantErr: `submissionSubType "Accounts"`},
		{name: "missing submission id", mutate: func(m *Message) { m.SubmissionID = "" }, wantErr: "submissionId is required"},
		{name: "bad user id", mutate: func(m *Message) { m.UserID = "bob" }, wantErr: `userId "bob" is not a uuid`},
		{name: "bad scheme id", mutate: func(m *Message) { m.ComplianceSchemeID = "x" }, wantErr: `complianceSchemeId "x" is not a uuid`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := message(SubTypeCompanyDetails, "org.csv")
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidMessage) {
				t.Fatalf("err = %v, want ErrInvalidMessage", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestMessage_ValidateReportsAllProblems(t *testing.T) {
	err := Message{}.Validate()
	for _, want := range []string{"blobName", "submissionSubType", "submissionId", "userId", "organisationId"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err %q does not mention %s", err, want)
		}
	}
}

func TestMessage_Submitter(t *testing.T) {
	m := message(SubTypeBrands, "b.csv")
	if sub := m.Submitter(); sub.ProducerID != testOrg || sub.IsComplianceScheme() {
		t.Errorf("producer submitter = %+v", sub)
	}
	m.ComplianceSchemeID = testUser
	if sub := m.Submitter(); !sub.IsComplianceScheme() || sub.ComplianceSchemeID != testUser {
		t.Errorf("scheme submitter = %+v", sub)
	}
}

func TestSubmissionSubType_RowType(t *testing.T) {
	tests := []struct {
		sub    SubmissionSubType
		want   schema.RowType
		wantOK bool
	}{
		{SubTypeCompanyDetails, schema.Organisation, true},
		{SubTypeBrands, schema.Brand, true},
		{SubTypePartnerships, schema.Partner, true},
		{"companydetails", "", false},
	}
	for _, tt := range tests {
		got, ok := tt.sub.RowType()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%s.RowType() = %s, %v", tt.sub, got, ok)
		}
	}
}

func TestFileErrorCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   rules.Code
		wantOK bool
	}{
		{"nil", nil, "", false},
		{"empty file", ingest.ErrEmptyFile, rules.FileEmpty, true},
		{"wrapped header mismatch", fmt.Errorf("%w: column 1", ingest.ErrHeaderMismatch), rules.InvalidFileHeaders, true},
		{"parse error", &ingest.ParseError{Line: 4, Err: errors.New("bare quote")}, rules.InvalidFileFormat, true},
		{"wrapped parse error", fmt.Errorf("read: %w", &ingest.ParseError{Err: errors.New("x")}), rules.InvalidFileFormat, true},
		{"io failure", errors.New("read csv: connection reset"), "", false},
		{"unknown row type", ingest.ErrUnknownRowType, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FileErrorCode(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FileErrorCode() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
