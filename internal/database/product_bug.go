package database

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// SnapshotTable names one of the Bugzilla snapshot tables
type SnapshotTable string

const (
	ProductBugs          SnapshotTable = "product_bugs"
	MultiArchProductBugs SnapshotTable = "multi_arch_product_bugs"
)

// BugField is a filterable snapshot column
type BugField string

const (
	FieldReporter   BugField = "reporter"
	FieldQAContact  BugField = "qa_contact"
	FieldProduct    BugField = "bug_product"
	FieldPriority   BugField = "priority"
	FieldWhiteboard BugField = "qa_whiteboard"
	FieldStatus     BugField = "status"
	FieldResolution BugField = "resolution"
	FieldHardware   BugField = "hardware"
)

// Operator compares a field against a value list
type Operator int

const (
	OpIn Operator = iota
	OpNotIn
)

// BugFilter is a single field predicate
type BugFilter struct {
	Field  BugField
	Op     Operator
	Values []string
}

// In builds a membership filter
func In(field BugField, values ...string) BugFilter {
	return BugFilter{Field: field, Op: OpIn, Values: values}
}

// NotIn builds an exclusion filter
func NotIn(field BugField, values ...string) BugFilter {
	return BugFilter{Field: field, Op: OpNotIn, Values: values}
}

// BugQuery selects snapshot rows created in [CreatedFrom, CreatedBefore) matching every filter
type BugQuery struct {
	Table         SnapshotTable
	Filters       []BugFilter
	CreatedFrom   time.Time
	CreatedBefore time.Time
}

// Where renders the query's predicates as a WHERE clause and its arguments
func (q BugQuery) Where() (string, []any) {
	conditions := []string{"created_at >= $1", "created_at < $2"}
	args := []any{q.CreatedFrom, q.CreatedBefore}

	for _, f := range q.Filters {
		args = append(args, f.Values)
		switch f.Op {
		case OpNotIn:
			conditions = append(conditions, fmt.Sprintf("NOT (%s = ANY($%d))", f.Field, len(args)))
		default:
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", f.Field, len(args)))
		}
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// SQL renders the full row query
func (q BugQuery) SQL() (string, []any) {
	where, args := q.Where()
	return `SELECT ` + q.columns() + ` FROM ` + string(q.table()) + where + ` ORDER BY bug_id ASC`, args
}

// Matches evaluates the query against a row in memory
func (q BugQuery) Matches(b *ProductBug) bool {
	if b.CreatedAt.Before(q.CreatedFrom) || !b.CreatedAt.Before(q.CreatedBefore) {
		return false
	}
	for _, f := range q.Filters {
		found := slices.Contains(f.Values, b.field(f.Field))
		if found != (f.Op == OpIn) {
			return false
		}
	}
	return true
}

func (q BugQuery) table() SnapshotTable {
	if q.Table == "" {
		return ProductBugs
	}
	return q.Table
}

func (q BugQuery) columns() string {
	cols := "bug_id, reporter, qa_contact, bug_product, component, priority, qa_whiteboard, status, resolution, created_at"
	if q.table() == MultiArchProductBugs {
		cols += ", hardware"
	}
	return cols
}

func (b *ProductBug) field(f BugField) string {
	switch f {
	case FieldReporter:
		return b.Reporter
	case FieldQAContact:
		return b.QAContact
	case FieldProduct:
		return b.Product
	case FieldPriority:
		return b.Priority
	case FieldWhiteboard:
		return b.Whiteboard
	case FieldStatus:
		return b.Status
	case FieldResolution:
		return b.Resolution
	case FieldHardware:
		return b.Hardware
	}
	return ""
}

// FindProductBugs retrieves the snapshot rows selected by q
func (db *DB) FindProductBugs(ctx context.Context, q BugQuery) ([]*ProductBug, error) {
	query, args := q.SQL()

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.table(), err)
	}
	defer rows.Close()

	multiArch := q.table() == MultiArchProductBugs
	bugs := []*ProductBug{}
	for rows.Next() {
		b := &ProductBug{}
		dest := []any{
			&b.BugID,
			&b.Reporter,
			&b.QAContact,
			&b.Product,
			&b.Component,
			&b.Priority,
			&b.Whiteboard,
			&b.Status,
			&b.Resolution,
			&b.CreatedAt,
		}
		if multiArch {
			dest = append(dest, &b.Hardware)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan product bug: %w", err)
		}
		bugs = append(bugs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return bugs, nil
}

// CountProductBugs counts the snapshot rows selected by q
func (db *DB) CountProductBugs(ctx context.Context, q BugQuery) (int, error) {
	where, args := q.Where()

	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+string(q.table())+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", q.table(), err)
	}
	return count, nil
}

// ReplaceProductBugs swaps the whole content of a snapshot table in one transaction
func (db *DB) ReplaceProductBugs(ctx context.Context, table SnapshotTable, bugs []*ProductBug) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+string(table)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	if len(bugs) > 0 {
		var query string
		if table == MultiArchProductBugs {
			query = `
				INSERT INTO multi_arch_product_bugs (bug_id, reporter, qa_contact, bug_product, component, priority, qa_whiteboard, status, resolution, created_at, hardware)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			`
		} else {
			query = `
				INSERT INTO product_bugs (bug_id, reporter, qa_contact, bug_product, component, priority, qa_whiteboard, status, resolution, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`
		}

		batch := &pgx.Batch{}
		for _, b := range bugs {
			args := []any{b.BugID, b.Reporter, b.QAContact, b.Product, b.Component, b.Priority, b.Whiteboard, b.Status, b.Resolution, b.CreatedAt}
			if table == MultiArchProductBugs {
				args = append(args, b.Hardware)
			}
			batch.Queue(query, args...)
		}

		br := tx.SendBatch(ctx, batch)
		for range bugs {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to execute batch: %w", err)
			}
		}

		// Must close batch reader before committing transaction
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
