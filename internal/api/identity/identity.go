// Package identity carries the authenticated user id through request
// contexts. Authentication itself happens upstream; requests arrive with an
// X-User-ID header set by the gateway.
package identity

import "context"

type contextKey struct{}

// HeaderName is the header the upstream gateway sets after authenticating.
const HeaderName = "X-User-ID"

// ContextWithUserID returns a context carrying the authenticated user id.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(contextKey{}).(int64)
	return userID, ok
}
