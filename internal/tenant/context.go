package tenant

import (
	"context"
	"net/http"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

type contextKey struct{}

// ContextWithScope stores the resolved scope on the context.
func ContextWithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, scope)
}

// ScopeFromContext returns the scope set by Middleware. The second return is
// false when no scope was resolved; callers must treat that as a bug, never
// as permission to read unscoped data.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(contextKey{}).(Scope)
	return scope, ok
}

// Middleware resolves the tenant triple from the request and rejects the
// request with a 400 before any handler runs when the triple is invalid.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, err := FromRequest(r)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithScope(r.Context(), scope)))
	})
}
