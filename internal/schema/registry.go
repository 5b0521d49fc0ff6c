// Package schema defines the column layout of every CSV file the validator
// accepts.
//
// Layouts are explicit table literals, one per row type. The registry built
// from them is immutable and answers two questions: which header names, in
// which order, a file must carry, and where a given field lives when a
// validation error has to point at a column.
package schema

import "sync"

// RowType identifies the kind of CSV file (and therefore the kind of row) being processed.
type RowType string

const (
	Organisation RowType = "organisation"
	Brand        RowType = "brand"
	Partner      RowType = "partner"
)

// Field is a stable identifier for a column, independent of its header text.
type Field string

// ColumnMeta locates a field inside a row type's layout.
// Index is zero-based and counts from the first CSV column.
type ColumnMeta struct {
	Index int
	Name  string
}

// Column is one entry of an ordered layout.
type Column struct {
	Field Field
	Name  string
	Index int
}

// Table is the resolved layout for a single row type.
type Table struct {
	rowType RowType
	columns []Column
	byField map[Field]ColumnMeta
}

func newTable(rowType RowType, defs []Column) *Table {
	t := &Table{
		rowType: rowType,
		columns: make([]Column, len(defs)),
		byField: make(map[Field]ColumnMeta, len(defs)),
	}
	for i, d := range defs {
		if _, dup := t.byField[d.Field]; dup {
			panic("schema: duplicate field " + string(d.Field) + " in " + string(rowType))
		}
		t.columns[i] = Column{Field: d.Field, Name: d.Name, Index: i}
		t.byField[d.Field] = ColumnMeta{Index: i, Name: d.Name}
	}
	return t
}

// RowType returns the row type this table describes.
func (t *Table) RowType() RowType { return t.rowType }

// Len returns the number of columns.
func (t *Table) Len() int { return len(t.columns) }

// Columns returns a copy of the ordered column list.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the expected header names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Meta returns the location of a field. ok is false if the field is not part of this layout.
func (t *Table) Meta(f Field) (ColumnMeta, bool) {
	m, ok := t.byField[f]
	return m, ok
}

// Registry maps row types to their layouts.
type Registry struct {
	tables map[RowType]*Table
}

// NewRegistry builds a registry from the static layouts.
func NewRegistry() *Registry {
	return &Registry{
		tables: map[RowType]*Table{
			Organisation: newTable(Organisation, organisationColumns),
			Brand:        newTable(Brand, brandColumns),
			Partner:      newTable(Partner, partnerColumns),
		},
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, built on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Table returns the layout for a row type, or nil if the row type is unknown.
func (r *Registry) Table(rt RowType) *Table {
	return r.tables[rt]
}

// ColumnsFor returns the ordered columns of a row type.
// Unknown row types yield an empty list.
func (r *Registry) ColumnsFor(rt RowType) []Column {
	t := r.tables[rt]
	if t == nil {
		return []Column{}
	}
	return t.Columns()
}

// Names returns the expected header names of a row type.
// Unknown row types yield an empty list.
func (r *Registry) Names(rt RowType) []string {
	t := r.tables[rt]
	if t == nil {
		return []string{}
	}
	return t.Names()
}

// ColumnOf returns where a field sits in a row type's layout.
// ok is false when either the row type or the field is unknown; callers treat
// that as "no column detail available".
func (r *Registry) ColumnOf(rt RowType, f Field) (ColumnMeta, bool) {
	t := r.tables[rt]
	if t == nil {
		return ColumnMeta{}, false
	}
	return t.Meta(f)
}
