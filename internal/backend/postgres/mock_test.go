package postgres

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// mockDB stands in for a pgx pool. Expectations match on the SQL text and
// the argument slice.
type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	ret := m.Called(ctx, sql, args)
	return ret.Get(0).(pgconn.CommandTag), ret.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ret := m.Called(ctx, sql, args)
	rows, _ := ret.Get(0).(pgx.Rows)
	return rows, ret.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return m.Called(ctx, sql, args).Get(0).(pgx.Row)
}

// record is one result row; Scan copies its values into the destinations.
type record struct {
	values []any
	err    error
}

func row(values ...any) *record { return &record{values: values} }

func failedRow(err error) *record { return &record{err: err} }

func (r *record) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		target := reflect.ValueOf(dest[i]).Elem()
		val := reflect.ValueOf(v)
		if !val.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan: column %d is %T, destination is %s", i, v, target.Type())
		}
		target.Set(val)
	}
	return nil
}

// resultSet iterates records the way pgx.Rows does.
type resultSet struct {
	records []*record
	pos     int
}

func rows(records ...*record) *resultSet { return &resultSet{records: records, pos: -1} }

// jsonRows is the shape every to_jsonb select returns: one text column.
func jsonRows(docs ...string) *resultSet {
	recs := make([]*record, len(docs))
	for i, d := range docs {
		recs[i] = row(d)
	}
	return rows(recs...)
}

func (s *resultSet) Next() bool {
	s.pos++
	return s.pos < len(s.records)
}

func (s *resultSet) Scan(dest ...any) error { return s.records[s.pos].Scan(dest...) }

func (s *resultSet) Err() error                                   { return nil }
func (s *resultSet) Close()                                       {}
func (s *resultSet) CommandTag() pgconn.CommandTag                 { return pgconn.NewCommandTag("SELECT") }
func (s *resultSet) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (s *resultSet) RawValues() [][]byte                          { return nil }
func (s *resultSet) Values() ([]any, error)                       { return s.records[s.pos].values, nil }
func (s *resultSet) Conn() *pgx.Conn                              { return nil }
