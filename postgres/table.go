// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package postgres

import (
	"errors"
	"fmt"
	"strings"

	goset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/tochemey/rhizome/errors"
)

// ColumnDefinition describes a table column
type ColumnDefinition struct {
	Name     string
	Datatype string
	NotNull  bool
	// Default is the SQL expression used when no value is supplied
	Default string
}

// NewColumn creates a ColumnDefinition
func NewColumn(name, datatype string) ColumnDefinition {
	return ColumnDefinition{Name: name, Datatype: datatype}
}

// WithNotNull returns a copy of the column that rejects NULL values
func (c ColumnDefinition) WithNotNull() ColumnDefinition {
	c.NotNull = true
	return c
}

// WithDefault returns a copy of the column with the given default expression
func (c ColumnDefinition) WithDefault(expression string) ColumnDefinition {
	c.Default = expression
	return c
}

// SQL returns the column clause of a CREATE TABLE statement
func (c ColumnDefinition) SQL() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteString(" ")
	sb.WriteString(c.Datatype)
	if c.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(c.Default)
	}
	return sb.String()
}

// IndexDefinition describes an index of a table
type IndexDefinition struct {
	// Name of the index. It defaults to <table>_<columns>_idx
	Name    string
	Columns []ColumnDefinition
	Unique  bool
	// Method is the index access method such as btree or gin
	Method      string
	IfNotExists bool
	Concurrent  bool
}

// NewIndex creates an IndexDefinition on the given columns
func NewIndex(columns ...ColumnDefinition) IndexDefinition {
	return IndexDefinition{Columns: columns, IfNotExists: true}
}

func (i IndexDefinition) sql(table string) string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if i.Unique {
		sb.WriteString("UNIQUE ")
	}
	sb.WriteString("INDEX ")
	if i.Concurrent {
		sb.WriteString("CONCURRENTLY ")
	}
	if i.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}

	name := i.Name
	if name == "" {
		name = table + "_" + strings.Join(columnNames(i.Columns), "_") + "_idx"
	}
	sb.WriteString(name)
	sb.WriteString(" ON ")
	sb.WriteString(table)
	if i.Method != "" {
		sb.WriteString(" USING ")
		sb.WriteString(i.Method)
	}
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columnNames(i.Columns), ", "))
	sb.WriteString(")")
	return sb.String()
}

// TableDefinition describes a table and builds the statements operating on it.
// Definition errors are recorded and reported by CreateTableQuery.
type TableDefinition struct {
	name         string
	columns      []ColumnDefinition
	columnNames  goset.Set[string]
	primaryKey   []ColumnDefinition
	unique       []ColumnDefinition
	indexes      []IndexDefinition
	ifNotExists  bool
	distribution *ColumnDefinition
	err          error
}

// NewTableDefinition creates a TableDefinition for the given table
func NewTableDefinition(name string) *TableDefinition {
	return &TableDefinition{
		name:        name,
		columnNames: goset.NewThreadUnsafeSet[string](),
		ifNotExists: true,
	}
}

// Name returns the table name
func (t *TableDefinition) Name() string {
	return t.name
}

// AddColumns appends columns to the table
func (t *TableDefinition) AddColumns(columns ...ColumnDefinition) *TableDefinition {
	for _, column := range columns {
		t.columns = append(t.columns, column)
		t.columnNames.Add(column.Name)
	}
	return t
}

// AddIndexes appends indexes to the table
func (t *TableDefinition) AddIndexes(indexes ...IndexDefinition) *TableDefinition {
	t.indexes = append(t.indexes, indexes...)
	return t
}

// PrimaryKey sets the primary key columns. It can only be set once.
func (t *TableDefinition) PrimaryKey(columns ...ColumnDefinition) *TableDefinition {
	if len(t.primaryKey) > 0 {
		t.err = errors.Join(t.err, fmt.Errorf("%w: primary key of %s has already been set", gerrors.ErrInvalidTableDefinition, t.name))
		return t
	}
	t.primaryKey = append(t.primaryKey, columns...)
	return t
}

// Unique sets the columns of the unique constraint. It can only be set once.
func (t *TableDefinition) Unique(columns ...ColumnDefinition) *TableDefinition {
	if len(t.unique) > 0 {
		t.err = errors.Join(t.err, fmt.Errorf("%w: unique constraint of %s has already been set", gerrors.ErrInvalidTableDefinition, t.name))
		return t
	}
	t.unique = append(t.unique, columns...)
	return t
}

// IfNotExists toggles the IF NOT EXISTS clause of the CREATE TABLE statement. It is on by default.
func (t *TableDefinition) IfNotExists(enabled bool) *TableDefinition {
	t.ifNotExists = enabled
	return t
}

// DistributedBy sets the column a Citus cluster shards the table on
func (t *TableDefinition) DistributedBy(column ColumnDefinition) *TableDefinition {
	t.distribution = &column
	return t
}

// Columns returns the table columns in declaration order
func (t *TableDefinition) Columns() []ColumnDefinition {
	return append([]ColumnDefinition(nil), t.columns...)
}

// Column returns the column with the given name
func (t *TableDefinition) Column(name string) (ColumnDefinition, bool) {
	for _, column := range t.columns {
		if column.Name == name {
			return column, true
		}
	}
	return ColumnDefinition{}, false
}

// CreateTableQuery returns the CREATE TABLE statement
func (t *TableDefinition) CreateTableQuery() (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}

	columns := make([]string, 0, len(t.columns))
	for _, column := range t.columns {
		columns = append(columns, column.SQL())
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if t.ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(t.name)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))

	if len(t.primaryKey) > 0 {
		sb.WriteString(", PRIMARY KEY (")
		sb.WriteString(strings.Join(columnNames(t.primaryKey), ", "))
		sb.WriteString(")")
	}

	if len(t.unique) > 0 {
		sb.WriteString(", UNIQUE (")
		sb.WriteString(strings.Join(columnNames(t.unique), ", "))
		sb.WriteString(")")
	}

	sb.WriteString(")")
	return sb.String(), nil
}

// DistributionQuery returns the statement distributing the table across a Citus cluster.
// The statement is a no-op when the table is already distributed.
// It returns false when no distribution column has been set.
func (t *TableDefinition) DistributionQuery() (string, bool, error) {
	if t.distribution == nil {
		return "", false, nil
	}

	if err := t.checkColumns(*t.distribution); err != nil {
		return "", false, err
	}

	return fmt.Sprintf(
		"SELECT create_distributed_table('%s', '%s') WHERE NOT EXISTS (SELECT 1 FROM pg_dist_partition WHERE logicalrelid = '%s'::regclass)",
		t.name, t.distribution.Name, t.name), true, nil
}

// CreateIndexQueries returns the CREATE INDEX statements of the table
func (t *TableDefinition) CreateIndexQueries() ([]string, error) {
	queries := make([]string, 0, len(t.indexes))
	for _, index := range t.indexes {
		if len(index.Columns) == 0 {
			return nil, fmt.Errorf("%w: index %q of %s has no column", gerrors.ErrInvalidTableDefinition, index.Name, t.name)
		}

		if err := t.checkColumns(index.Columns...); err != nil {
			return nil, err
		}
		queries = append(queries, index.sql(t.name))
	}
	return queries, nil
}

// InsertQuery returns an INSERT statement for the given columns, or for every column
// when none is given. onConflict, when set, is appended as is.
func (t *TableDefinition) InsertQuery(onConflict string, columns ...ColumnDefinition) (string, error) {
	if len(columns) == 0 {
		columns = t.columns
	}

	if err := t.checkColumns(columns...); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(t.name)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columnNames(columns), ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(placeholders(1, len(columns)), ", "))
	sb.WriteString(")")

	if onConflict != "" {
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSpace(onConflict))
	}
	return sb.String(), nil
}

// UpdateQuery returns an UPDATE statement setting the given columns on the rows matching where.
// The set placeholders come first, followed by the where placeholders.
func (t *TableDefinition) UpdateQuery(where, set []ColumnDefinition) (string, error) {
	if len(set) == 0 {
		return "", fmt.Errorf("%w: columns to update must be specified", gerrors.ErrInvalidTableDefinition)
	}

	if len(where) == 0 {
		return "", fmt.Errorf("%w: columns for the where clause must be specified", gerrors.ErrInvalidTableDefinition)
	}

	if err := t.checkColumns(append(append([]ColumnDefinition(nil), set...), where...)...); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(t.name)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assignments(set, 1), ", "))
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(assignments(where, len(set)+1), " AND "))
	return sb.String(), nil
}

// DeleteQuery returns a DELETE statement removing the rows matching where
func (t *TableDefinition) DeleteQuery(where []ColumnDefinition) (string, error) {
	if len(where) == 0 {
		return "", fmt.Errorf("%w: columns for the where clause must be specified", gerrors.ErrInvalidTableDefinition)
	}

	if err := t.checkColumns(where...); err != nil {
		return "", err
	}

	return "DELETE FROM " + t.name + " WHERE " + strings.Join(assignments(where, 1), " AND "), nil
}

// SelectQuery returns a SELECT statement of the given columns, or of every column
// when none is given, filtered by where when set.
func (t *TableDefinition) SelectQuery(columns, where []ColumnDefinition) (string, error) {
	if err := t.checkColumns(append(append([]ColumnDefinition(nil), columns...), where...)...); err != nil {
		return "", err
	}

	projection := "*"
	if len(columns) > 0 {
		projection = strings.Join(columnNames(columns), ", ")
	}

	query := "SELECT " + projection + " FROM " + t.name
	if len(where) > 0 {
		query += " WHERE " + strings.Join(assignments(where, 1), " AND ")
	}
	return query, nil
}

func (t *TableDefinition) validate() error {
	if t.err != nil {
		return t.err
	}

	if t.name == "" {
		return fmt.Errorf("%w: table name is required", gerrors.ErrInvalidTableDefinition)
	}

	if len(t.columns) == 0 {
		return fmt.Errorf("%w: %s has no column", gerrors.ErrInvalidTableDefinition, t.name)
	}

	if name, ok := firstDuplicate(t.columns); ok {
		return fmt.Errorf("%w: detected duplicate column %s in %s", gerrors.ErrInvalidTableDefinition, name, t.name)
	}

	if name, ok := firstDuplicate(t.primaryKey); ok {
		return fmt.Errorf("%w: detected duplicate primary key column %s in %s", gerrors.ErrInvalidTableDefinition, name, t.name)
	}

	if err := t.checkColumns(t.primaryKey...); err != nil {
		return err
	}
	return t.checkColumns(t.unique...)
}

func (t *TableDefinition) checkColumns(columns ...ColumnDefinition) error {
	var missing []string
	for _, column := range columns {
		if !t.columnNames.Contains(column.Name) {
			missing = append(missing, column.Name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s does not define %v", gerrors.ErrUnknownColumn, t.name, missing)
	}
	return nil
}

func firstDuplicate(columns []ColumnDefinition) (string, bool) {
	seen := goset.NewThreadUnsafeSetWithSize[string](len(columns))
	for _, column := range columns {
		if !seen.Add(column.Name) {
			return column.Name, true
		}
	}
	return "", false
}

func columnNames(columns []ColumnDefinition) []string {
	names := make([]string, 0, len(columns))
	for _, column := range columns {
		names = append(names, column.Name)
	}
	return names
}

func placeholders(from, count int) []string {
	result := make([]string, 0, count)
	for i := range count {
		result = append(result, fmt.Sprintf("$%d", from+i))
	}
	return result
}

func assignments(columns []ColumnDefinition, from int) []string {
	result := make([]string, 0, len(columns))
	for i, column := range columns {
		result = append(result, fmt.Sprintf("%s = $%d", column.Name, from+i))
	}
	return result
}
