// Package postgres implements the backend contract directly on a PostgreSQL
// database holding the dashboard tables.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/backupdash/internal/backend"
)

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

// NewBackend wires a Store and an optional Auth into a backend.Client. A nil
// auth leaves authentication unconfigured.
func NewBackend(db DB, auth *Auth) *backend.Client {
	c := &backend.Client{Name: "postgres", Store: NewStore(db)}
	if auth != nil {
		c.Auth = auth
	}
	return c
}

func (s *Store) Select(ctx context.Context, q backend.Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}

	sql, args := selectSQL(q)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return wrapErr("select", q.Table, err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return wrapErr("select", q.Table, fmt.Errorf("scan row: %w", err))
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return wrapErr("select", q.Table, err)
	}

	raw := "[" + strings.Join(docs, ",") + "]"
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return wrapErr("select", q.Table, fmt.Errorf("decode rows: %w", err))
	}
	return nil
}

func (s *Store) SelectOne(ctx context.Context, q backend.Query, dest any) error {
	q.Limit = 1

	var rows []json.RawMessage
	if err := s.Select(ctx, q, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return wrapErr("select", q.Table, fmt.Errorf("decode row: %w", err))
	}
	return nil
}

func (s *Store) Count(ctx context.Context, table string, filters ...backend.Filter) (int, error) {
	where, args, err := whereClause(filters)
	if err != nil {
		return 0, err
	}

	var n int
	sql := "SELECT count(*) FROM " + ident(table) + " t" + where
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, wrapErr("count", table, err)
	}
	return n, nil
}

func (s *Store) Sum(ctx context.Context, table, column string, filters ...backend.Filter) (int64, error) {
	where, args, err := whereClause(filters)
	if err != nil {
		return 0, err
	}

	var total int64
	sql := "SELECT coalesce(sum(t." + ident(column) + "), 0)::bigint FROM " + ident(table) + " t" + where
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, wrapErr("sum", table, err)
	}
	return total, nil
}

func (s *Store) CountBuckets(ctx context.Context, q backend.BucketQuery) ([]backend.BucketCount, error) {
	if _, err := backend.ParseGranularity(string(q.Granularity)); err != nil {
		return nil, fmt.Errorf("count buckets: %w", err)
	}

	rows, err := s.db.Query(ctx, bucketSQL(q), string(q.Granularity), q.Since.UTC())
	if err != nil {
		return nil, wrapErr("count buckets", q.Table, err)
	}
	defer rows.Close()

	var counts []backend.BucketCount
	for rows.Next() {
		var bc backend.BucketCount
		if err := rows.Scan(&bc.Bucket, &bc.Group, &bc.Count); err != nil {
			return nil, wrapErr("count buckets", q.Table, fmt.Errorf("scan row: %w", err))
		}
		bc.Bucket = bc.Bucket.UTC()
		counts = append(counts, bc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("count buckets", q.Table, err)
	}
	return counts, nil
}

func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return wrapErr("ping", "", err)
	}
	return nil
}

// wrapErr turns driver errors into *backend.Error, carrying the SQLSTATE and
// server message when PostgreSQL produced the error.
func wrapErr(op, table string, err error) error {
	be := &backend.Error{Op: op, Table: table, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		be.Code = pgErr.Code
		be.Message = pgErr.Message
	}
	return be
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// selectSQL renders one JSON document per row:
//
//	SELECT (to_jsonb(t) || jsonb_build_object('machines',
//	  (SELECT jsonb_build_object('name', e0."name") FROM "machines" e0 WHERE e0."id" = t."machine_id")))::text
//	FROM "backup_logs" t WHERE ... ORDER BY ... LIMIT n
func selectSQL(q backend.Query) (string, []any) {
	var b strings.Builder

	b.WriteString("SELECT (")
	b.WriteString(jsonObject("t", q.Columns))
	if len(q.Embeds) > 0 {
		b.WriteString(" || jsonb_build_object(")
		for i, e := range q.Embeds {
			if i > 0 {
				b.WriteString(", ")
			}
			alias := fmt.Sprintf("e%d", i)
			fmt.Fprintf(&b, "%s, (SELECT %s FROM %s %s WHERE %s.\"id\" = t.%s)",
				literal(e.Alias), jsonObject(alias, e.Columns), ident(e.Table), alias, alias, ident(e.ForeignKey))
		}
		b.WriteString(")")
	}
	b.WriteString(")::text FROM ")
	b.WriteString(ident(q.Table))
	b.WriteString(" t")

	// Validate has already rejected unknown operators.
	where, args, _ := whereClause(q.Filters)
	b.WriteString(where)

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "ASC"
			if o.Descending {
				dir = "DESC"
			}
			parts = append(parts, "t."+ident(o.Column)+" "+dir)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), args
}

func jsonObject(alias string, columns []string) string {
	if len(columns) == 0 {
		return "to_jsonb(" + alias + ")"
	}
	pairs := make([]string, 0, len(columns))
	for _, c := range columns {
		pairs = append(pairs, literal(c)+", "+alias+"."+ident(c))
	}
	return "jsonb_build_object(" + strings.Join(pairs, ", ") + ")"
}

var sqlOperators = map[backend.Operator]string{
	backend.OpEq:  "=",
	backend.OpNeq: "<>",
	backend.OpGt:  ">",
	backend.OpGte: ">=",
	backend.OpLt:  "<",
	backend.OpLte: "<=",
}

// whereClause renders filters with positional parameters. Equality against
// nil becomes IS NULL / IS NOT NULL.
func whereClause(filters []backend.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(filters))
	var args []any
	for _, f := range filters {
		col := "t." + ident(f.Column)
		if f.Value == nil {
			switch f.Op {
			case backend.OpEq:
				conds = append(conds, col+" IS NULL")
				continue
			case backend.OpNeq:
				conds = append(conds, col+" IS NOT NULL")
				continue
			}
		}
		op, ok := sqlOperators[f.Op]
		if !ok {
			return "", nil, fmt.Errorf("query: unknown operator %q", f.Op)
		}
		args = append(args, f.Value)
		conds = append(conds, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// bucketSQL truncates in UTC so bucket starts line up with
// backend.Granularity.Truncate.
func bucketSQL(q backend.BucketQuery) string {
	col := "t." + ident(q.TimeColumn)
	return fmt.Sprintf(
		"SELECT date_trunc($1, %s AT TIME ZONE 'UTC') AT TIME ZONE 'UTC', t.%s::text, count(*)::int FROM %s t WHERE %s >= $2 GROUP BY 1, 2 ORDER BY 1",
		col, ident(q.GroupColumn), ident(q.Table), col)
}

var _ backend.Store = (*Store)(nil)
var _ backend.Pinger = (*Store)(nil)
