package backend

import (
	"fmt"
	"strings"
	"time"
)

// Operator is a filter comparison.
type Operator string

const (
	OpEq  Operator = "eq"
	OpNeq Operator = "neq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
)

// Filter restricts a query to rows where Column compares to Value.
type Filter struct {
	Column string
	Op     Operator
	Value  any
}

func Eq(column string, value any) Filter  { return Filter{Column: column, Op: OpEq, Value: value} }
func Neq(column string, value any) Filter { return Filter{Column: column, Op: OpNeq, Value: value} }
func Gte(column string, value any) Filter { return Filter{Column: column, Op: OpGte, Value: value} }
func Lt(column string, value any) Filter  { return Filter{Column: column, Op: OpLt, Value: value} }

// Order sorts results by a column.
type Order struct {
	Column     string
	Descending bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Descending: true} }

// Embed resolves a foreign key of the queried table to columns of the
// referenced row. The referenced table's primary key is "id".
type Embed struct {
	Alias      string
	Table      string
	ForeignKey string
	Columns    []string
}

// Query describes a table-scoped read.
type Query struct {
	Table   string
	Columns []string
	Embeds  []Embed
	Filters []Filter
	Order   []Order
	// Limit caps the number of rows; zero means no limit.
	Limit int
}

// Validate checks the parts every backend relies on.
func (q Query) Validate() error {
	if q.Table == "" {
		return fmt.Errorf("query: missing table")
	}
	if q.Limit < 0 {
		return fmt.Errorf("query: negative limit %d", q.Limit)
	}
	for _, f := range q.Filters {
		if f.Column == "" {
			return fmt.Errorf("query %s: filter without column", q.Table)
		}
		if !f.Op.valid() {
			return fmt.Errorf("query %s: unknown operator %q", q.Table, f.Op)
		}
	}
	for _, e := range q.Embeds {
		if e.Alias == "" || e.Table == "" || e.ForeignKey == "" {
			return fmt.Errorf("query %s: incomplete embed %+v", q.Table, e)
		}
	}
	return nil
}

func (op Operator) valid() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Granularity is the width of an activity bucket.
type Granularity string

const (
	GranularityHour Granularity = "hour"
	GranularityDay  Granularity = "day"
)

// ParseGranularity accepts "hour" or "day" (case-insensitive).
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case GranularityHour, GranularityDay:
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q (want hour or day)", s)
}

// Duration returns the bucket width.
func (g Granularity) Duration() time.Duration {
	if g == GranularityHour {
		return time.Hour
	}
	return 24 * time.Hour
}

// MaxBuckets bounds a bucketed series to a month of hourly buckets.
const MaxBuckets = 744

// BucketsFor returns how many g buckets cover days days. ok is false when
// that is more than MaxBuckets; days is checked before multiplying so huge
// values cannot wrap around.
func (g Granularity) BucketsFor(days int) (n int, ok bool) {
	perDay := 1
	if g == GranularityHour {
		perDay = 24
	}
	if days > MaxBuckets/perDay {
		return 0, false
	}
	return days * perDay, true
}

// Truncate returns the UTC start of the bucket containing t.
func (g Granularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	if g == GranularityHour {
		return t.Truncate(time.Hour)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BucketQuery groups rows of Table by the truncated TimeColumn and by
// GroupColumn, counting rows with TimeColumn >= Since.
type BucketQuery struct {
	Table       string
	TimeColumn  string
	GroupColumn string
	Granularity Granularity
	Since       time.Time
}

// BucketCount is one (bucket, group) cell of a BucketQuery result.
type BucketCount struct {
	Bucket time.Time `json:"bucket"`
	Group  string    `json:"group"`
	Count  int       `json:"count"`
}
