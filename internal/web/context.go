package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/tabular/internal/core"
	"github.com/go-chi/chi/v5"
)

// withRequestMetadata adds the client IP, User-Agent and route to ctx so
// the service can record who created or changed a table.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // already rewritten by TrustedRealIP
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	ctx = core.ContextWithClientIP(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	op := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		op = rctx.RoutePattern()
	}
	return core.ContextWithOperation(ctx, r.Method+" "+op)
}
