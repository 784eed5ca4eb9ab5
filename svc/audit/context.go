package audit

import (
	"context"
	"net/http"
)

type userAgentCtxKey struct{}

// WithUserAgentContext stores the request's user agent in the context.
func WithUserAgentContext(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentCtxKey{}, ua)
}

// UserAgentFromContext retrieves the user agent stored in the context.
func UserAgentFromContext(ctx context.Context) (string, bool) {
	ua, ok := ctx.Value(userAgentCtxKey{}).(string)
	return ua, ok && ua != ""
}

// UserAgentMiddleware copies the User-Agent header into the request context
// so audit call sites deeper in the stack can pick it up.
func UserAgentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.UserAgent(); ua != "" {
			r = r.WithContext(WithUserAgentContext(r.Context(), ua))
		}
		next.ServeHTTP(w, r)
	})
}
