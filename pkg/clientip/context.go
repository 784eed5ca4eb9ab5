package clientip

import "context"

type ipCtxKey struct{}

// WithContext stores the client IP in the context.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipCtxKey{}, ip)
}

// FromContext retrieves the client IP from the context, or "" when absent.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ipCtxKey{}).(string)
	return ip
}
