// Package ingest turns a submitted CSV stream into schema rows.
//
// The header line must equal the layout's column names in order; anything
// else (a missing, extra or reordered column) is rejected before a single
// data row is read.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/regvalidate/internal/schema"
)

// Mode selects how much of each row is kept.
type Mode int

const (
	// ModeFull keeps every column.
	ModeFull Mode = iota
	// ModeIdentity keeps only organisation_id and subsidiary_id. Used when a
	// file is read purely to build the organisation lookup table.
	ModeIdentity
)

var (
	// ErrEmptyFile is returned when the stream holds no header line at all.
	ErrEmptyFile = errors.New("empty file")

	// ErrHeaderMismatch is returned when the header does not match the layout.
	ErrHeaderMismatch = errors.New("header mismatch")

	// ErrUnknownRowType is returned when no layout is registered for the row type.
	ErrUnknownRowType = errors.New("unknown row type")
)

// ParseError wraps a deserialisation failure such as malformed quoting or a
// wrong number of fields. I/O errors from the underlying stream are not
// ParseErrors; they are returned wrapped and treated as fatal by callers.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse failure at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse failure: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Result is what a successful parse produces.
type Result struct {
	Rows      []schema.Row
	BytesRead int64
}

// Parser reads CSV streams against a schema registry.
type Parser struct {
	registry *schema.Registry
}

// NewParser creates a parser. A nil registry falls back to schema.Default().
func NewParser(reg *schema.Registry) *Parser {
	if reg == nil {
		reg = schema.Default()
	}
	return &Parser{registry: reg}
}

// Parse reads r with the default registry.
func Parse(r io.Reader, rt schema.RowType, mode Mode) ([]schema.Row, error) {
	res, err := NewParser(nil).Parse(r, rt, mode)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// Parse reads every record of r. A file holding only a valid header yields an
// empty, non-nil row slice.
func (p *Parser) Parse(r io.Reader, rt schema.RowType, mode Mode) (Result, error) {
	table := p.registry.Table(rt)
	if table == nil {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownRowType, rt)
	}

	counter := Wrap(r)
	cr := csv.NewReader(counter)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, ErrEmptyFile
	}
	if err != nil {
		return Result{}, toParseError(err)
	}
	if err := checkHeader(header, table.Names()); err != nil {
		return Result{}, err
	}

	// From here every record must have exactly as many fields as the header.
	cr.FieldsPerRecord = table.Len()

	var keep []int
	if mode == ModeIdentity {
		keep = identityIndexes(table)
	}

	rows := make([]schema.Row, 0)
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, toParseError(err)
		}
		line++

		values := make([]string, table.Len())
		if keep == nil {
			for i, v := range record {
				values[i] = strings.TrimSpace(v)
			}
		} else {
			for _, i := range keep {
				values[i] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, schema.NewRow(table, line, values))
	}

	return Result{Rows: rows, BytesRead: counter.BytesRead}, nil
}

// checkHeader compares the header to the expected names as an ordered sequence.
func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%w: expected %d columns, found %d", ErrHeaderMismatch, len(want), len(got))
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return fmt.Errorf("%w: column %d is %q, expected %q", ErrHeaderMismatch, i+1, strings.TrimSpace(got[i]), want[i])
		}
	}
	return nil
}

func identityIndexes(t *schema.Table) []int {
	var idx []int
	for _, f := range []schema.Field{schema.OrganisationID, schema.SubsidiaryID} {
		if m, ok := t.Meta(f); ok {
			idx = append(idx, m.Index)
		}
	}
	return idx
}

func toParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return fmt.Errorf("read csv: %w", err)
}
