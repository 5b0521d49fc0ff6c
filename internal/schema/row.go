package schema

// Row is one deserialised CSV record.
//
// Values are held in layout order. LineNumber is the 1-based line of the
// record in the source file, counting the header as line 1, and is never
// changed after parsing.
type Row struct {
	LineNumber int

	table  *Table
	values []string
}

// NewRow builds a row for the given layout. values shorter than the layout are
// padded with empty strings; extra values are ignored.
func NewRow(t *Table, line int, values []string) Row {
	v := make([]string, t.Len())
	copy(v, values)
	return Row{LineNumber: line, table: t, values: v}
}

// Type returns the row type, or "" for a zero Row.
func (r Row) Type() RowType {
	if r.table == nil {
		return ""
	}
	return r.table.rowType
}

// Table returns the layout the row was built against.
func (r Row) Table() *Table { return r.table }

// Get returns a field value, or "" if the field is not part of the row's layout.
func (r Row) Get(f Field) string {
	if r.table == nil {
		return ""
	}
	m, ok := r.table.byField[f]
	if !ok || m.Index >= len(r.values) {
		return ""
	}
	return r.values[m.Index]
}

// OrganisationID returns the organisation_id value.
func (r Row) OrganisationID() string { return r.Get(OrganisationID) }

// SubsidiaryID returns the subsidiary_id value.
func (r Row) SubsidiaryID() string { return r.Get(SubsidiaryID) }

// IsSubsidiary reports whether the row carries a subsidiary id.
func (r Row) IsSubsidiary() bool { return r.SubsidiaryID() != "" }

// Values returns a copy of the row values in layout order.
func (r Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Key identifies a row by organisation and subsidiary.
type Key struct {
	OrganisationID string
	SubsidiaryID   string
}

// Key returns the (organisation, subsidiary) identity of the row.
func (r Row) Key() Key {
	return Key{OrganisationID: r.OrganisationID(), SubsidiaryID: r.SubsidiaryID()}
}
