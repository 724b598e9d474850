package request

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ParseLimit reads the limit query parameter. It defaults to DefaultLimit and
// is capped at MaxLimit; values that are not positive integers are rejected.
func ParseLimit(r *http.Request) (int, error) {
	limit, err := QueryInt(r, "limit", DefaultLimit)
	if err != nil {
		return 0, err
	}
	if limit <= 0 {
		return 0, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return min(limit, MaxLimit), nil
}

// QueryInt reads an integer query parameter, returning fallback when absent.
func QueryInt(r *http.Request, key string, fallback int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", key, s)
	}
	return n, nil
}
