package api

import (
	"net/http"
	"strconv"

	"github.com/jdholdren/retrodex/internal/serverutil"
)

const maxBodyBytes = 1 << 20

// Parses a page size from the query, clamping it into [1, max].
func parseLimit(r *http.Request, key string, defaultLimit, maxLimit int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

// A query flag is on for "1" or "true".
func flag(r *http.Request, key string) bool {
	v := r.URL.Query().Get(key)
	return v == "1" || v == "true"
}

func decodeValid[V serverutil.Validator](r *http.Request) (V, error) {
	return serverutil.DecodeValid[V](http.MaxBytesReader(nil, r.Body, maxBodyBytes))
}
