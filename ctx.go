package auth

import (
	"context"
)

var accountIDCtxKey = &contextKey{"account_id"}

type contextKey struct {
	name string
}

// WithAccountIDContext sets the verified account id in the given context
func WithAccountIDContext(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDCtxKey, accountID)
}

// AccountIDFromContext finds the verified account id in the context.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	raw, ok := ctx.Value(accountIDCtxKey).(string)
	return raw, ok && raw != ""
}
