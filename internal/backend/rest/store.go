package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/edvin/backupdash/internal/backend"
)

// countBucketsFn is the database function behind CountBuckets. It takes the
// BucketQuery fields as p_* arguments and returns rows of (bucket, group, count).
const countBucketsFn = "count_buckets"

func (c *Client) Select(ctx context.Context, q backend.Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}

	resp, err := c.do(ctx, call{
		op:     "select",
		table:  q.Table,
		method: http.MethodGet,
		path:   "/rest/v1/" + q.Table,
		params: queryParams(q),
	})
	if err != nil {
		return err
	}
	return decode(resp, "select", q.Table, dest)
}

func (c *Client) SelectOne(ctx context.Context, q backend.Query, dest any) error {
	q.Limit = 1

	var rows []json.RawMessage
	if err := c.Select(ctx, q, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return &backend.Error{Op: "select", Table: q.Table, Err: fmt.Errorf("decode row: %w", err)}
	}
	return nil
}

// Count issues a HEAD request and reads the exact total from Content-Range.
func (c *Client) Count(ctx context.Context, table string, filters ...backend.Filter) (int, error) {
	params := url.Values{}
	params.Set("select", "*")
	addFilters(params, filters)

	resp, err := c.do(ctx, call{
		op:      "count",
		table:   table,
		method:  http.MethodHead,
		path:    "/rest/v1/" + table,
		params:  params,
		headers: map[string]string{"Prefer": "count=exact"},
	})
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	n, err := parseContentRange(resp.Header.Get("Content-Range"))
	if err != nil {
		return 0, &backend.Error{Op: "count", Table: table, Err: err}
	}
	return n, nil
}

// Sum uses a PostgREST aggregate select. A sum over zero rows is null and
// reported as 0.
func (c *Client) Sum(ctx context.Context, table, column string, filters ...backend.Filter) (int64, error) {
	params := url.Values{}
	params.Set("select", "total:"+column+".sum()")
	addFilters(params, filters)

	resp, err := c.do(ctx, call{
		op:     "sum",
		table:  table,
		method: http.MethodGet,
		path:   "/rest/v1/" + table,
		params: params,
	})
	if err != nil {
		return 0, err
	}

	var rows []struct {
		Total *json.Number `json:"total"`
	}
	if err := decode(resp, "sum", table, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 || rows[0].Total == nil {
		return 0, nil
	}
	if n, err := rows[0].Total.Int64(); err == nil {
		return n, nil
	}
	f, err := rows[0].Total.Float64()
	if err != nil {
		return 0, &backend.Error{Op: "sum", Table: table, Err: fmt.Errorf("parse total %q: %w", rows[0].Total.String(), err)}
	}
	return int64(math.Round(f)), nil
}

func (c *Client) CountBuckets(ctx context.Context, q backend.BucketQuery) ([]backend.BucketCount, error) {
	resp, err := c.do(ctx, call{
		op:     "count buckets",
		table:  q.Table,
		method: http.MethodPost,
		path:   "/rest/v1/rpc/" + countBucketsFn,
		body: map[string]any{
			"p_table":        q.Table,
			"p_time_column":  q.TimeColumn,
			"p_group_column": q.GroupColumn,
			"p_granularity":  string(q.Granularity),
			"p_since":        q.Since.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}

	var counts []backend.BucketCount
	if err := decode(resp, "count buckets", q.Table, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// Ping requests the API root, which PostgREST answers with its schema.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, call{op: "ping", method: http.MethodGet, path: "/rest/v1/"})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func queryParams(q backend.Query) url.Values {
	params := url.Values{}
	params.Set("select", selectParam(q))
	addFilters(params, q.Filters)

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Descending {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		params.Set("order", strings.Join(parts, ","))
	}

	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params
}

// selectParam renders columns and embeds, e.g. "*,machines:machine_id(name)".
func selectParam(q backend.Query) string {
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ",")
	}

	parts := []string{cols}
	for _, e := range q.Embeds {
		embedCols := "*"
		if len(e.Columns) > 0 {
			embedCols = strings.Join(e.Columns, ",")
		}
		parts = append(parts, fmt.Sprintf("%s:%s(%s)", e.Alias, e.ForeignKey, embedCols))
	}
	return strings.Join(parts, ",")
}

func addFilters(params url.Values, filters []backend.Filter) {
	for _, f := range filters {
		params.Add(f.Column, string(f.Op)+"."+formatValue(f.Value))
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// parseContentRange extracts the total from "0-24/3573" or "*/0".
func parseContentRange(h string) (int, error) {
	i := strings.LastIndex(h, "/")
	if i < 0 {
		return 0, fmt.Errorf("malformed Content-Range %q", h)
	}
	total := h[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("no exact total in Content-Range %q", h)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("malformed Content-Range %q: %w", h, err)
	}
	return n, nil
}
