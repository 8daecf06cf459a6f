package domain

import "context"

type CtxKey string

const (
	KeyIdentity    CtxKey = "Identity"
	KeyAccessToken CtxKey = "AccessToken"
	KeyRequestID   CtxKey = "RequestID"
)

// WithIdentity returns a context carrying the caller's identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, id)
}

// IdentityFromContext returns the caller set by the auth middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(KeyIdentity).(*Identity)
	return id, ok && id != nil
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}
