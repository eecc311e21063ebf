package graphql

import (
	"context"
	"net/http"
	"strconv"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const CtxKeyLocationID contextKey = "locationID"

// LocationIDFromContext returns the location ID for the current request.
// Zero means "no location scoping".
func LocationIDFromContext(ctx context.Context) uint {
	if v := ctx.Value(CtxKeyLocationID); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// WithLocationID attaches a location ID to context.
func WithLocationID(ctx context.Context, locationID uint) context.Context {
	return context.WithValue(ctx, CtxKeyLocationID, locationID)
}

// Location scoping for the current request.
// Resolved from: Location header > __Location query param.
const (
	HeaderLocation     = "Location-Id"
	QueryParamLocation = "__Location"
)

// GetLocationID extracts the location scope from a request.
func GetLocationID(r *http.Request) uint {
	if h := r.Header.Get(HeaderLocation); h != "" {
		if id, err := strconv.ParseUint(h, 10, 32); err == nil {
			return uint(id)
		}
	}
	if q := r.URL.Query().Get(QueryParamLocation); q != "" {
		if id, err := strconv.ParseUint(q, 10, 32); err == nil {
			return uint(id)
		}
	}
	return 0
}
