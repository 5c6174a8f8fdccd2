// Package querybuilder renders the small subset of SQL the repositories need.
// Placeholders are Postgres-style ($1..$n) and numbered by bind order.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// stmt accumulates SQL text and bound arguments; the next placeholder number
// is always len(args)+1.
type stmt struct {
	sql  strings.Builder
	args []any
}

func (s *stmt) raw(text string) {
	s.sql.WriteString(text)
}

func (s *stmt) bind(value any) {
	s.args = append(s.args, value)
	s.sql.WriteString("$")
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

// expand copies expr, binding one argument per '?' marker. Extra markers are
// copied through untouched.
func (s *stmt) expand(expr string, exprArgs []any) {
	if len(exprArgs) == 0 {
		s.raw(expr)
		return
	}

	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			s.bind(exprArgs[next])
			next++
			continue
		}
		s.sql.WriteByte(expr[i])
	}
}

func (s *stmt) whereClause(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			s.raw(" WHERE ")
		} else {
			s.raw(" AND ")
		}
		c(s)
	}
}

// Condition renders one WHERE predicate.
type Condition func(s *stmt)

func compare(column, op string, value any) Condition {
	return func(s *stmt) {
		s.raw(column)
		s.raw(" ")
		s.raw(op)
		s.raw(" ")
		s.bind(value)
	}
}

func Eq(column string, value any) Condition  { return compare(column, "=", value) }
func Lt(column string, value any) Condition  { return compare(column, "<", value) }
func Lte(column string, value any) Condition { return compare(column, "<=", value) }
func Gt(column string, value any) Condition  { return compare(column, ">", value) }
func Gte(column string, value any) Condition { return compare(column, ">=", value) }

// In renders an IN list. An empty list renders a predicate matching nothing.
func In(column string, values []any) Condition {
	return func(s *stmt) {
		if len(values) == 0 {
			s.raw("1=0")
			return
		}
		s.raw(column)
		s.raw(" IN (")
		for i, v := range values {
			if i > 0 {
				s.raw(", ")
			}
			s.bind(v)
		}
		s.raw(")")
	}
}

func IsNull(column string) Condition {
	return func(s *stmt) {
		s.raw(column)
		s.raw(" IS NULL")
	}
}

func IsNotNull(column string) Condition {
	return func(s *stmt) {
		s.raw(column)
		s.raw(" IS NOT NULL")
	}
}

// Expr is the escape hatch for predicates the builder cannot express, with
// '?' markers for arguments.
func Expr(expr string, args ...any) Condition {
	return func(s *stmt) {
		s.expand(expr, args)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	s := &stmt{}
	s.raw("SELECT ")
	s.raw(strings.Join(b.columns, ", "))
	s.raw(" FROM ")
	s.raw(b.table)
	s.whereClause(b.where)
	if len(b.groupBy) > 0 {
		s.raw(" GROUP BY ")
		s.raw(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		s.raw(" ORDER BY ")
		s.raw(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.raw(" LIMIT ")
		s.raw(strconv.Itoa(b.limit))
	}

	return s.sql.String(), s.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
	}

	s := &stmt{}
	s.raw("INSERT INTO ")
	s.raw(b.table)
	s.raw(" (")
	s.raw(strings.Join(b.columns, ", "))
	s.raw(") VALUES ")
	for i, row := range b.rows {
		if i > 0 {
			s.raw(", ")
		}
		s.raw("(")
		for j, value := range row {
			if j > 0 {
				s.raw(", ")
			}
			s.bind(value)
		}
		s.raw(")")
	}
	if b.suffix != "" {
		s.raw(" ")
		s.raw(b.suffix)
	}

	return s.sql.String(), s.args, nil
}

type assignment struct {
	column   string
	value    any
	expr     string
	exprArgs []any
	isExpr   bool
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw SQL expression, with '?' markers for arguments.
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr, exprArgs: args, isExpr: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	s := &stmt{}
	s.raw("UPDATE ")
	s.raw(b.table)
	s.raw(" SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.raw(", ")
		}
		s.raw(a.column)
		s.raw(" = ")
		if a.isExpr {
			s.expand(a.expr, a.exprArgs)
		} else {
			s.bind(a.value)
		}
	}
	s.whereClause(b.where)
	if b.suffix != "" {
		s.raw(" ")
		s.raw(b.suffix)
	}

	return s.sql.String(), s.args, nil
}

type DeleteBuilder struct {
	table  string
	where  []Condition
	suffix string
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) Suffix(sql string) *DeleteBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	// An unbounded DELETE is never intentional here.
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete conditions are required")
	}

	s := &stmt{}
	s.raw("DELETE FROM ")
	s.raw(b.table)
	s.whereClause(b.where)
	if b.suffix != "" {
		s.raw(" ")
		s.raw(b.suffix)
	}

	return s.sql.String(), s.args, nil
}
