package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/stacktable/internal/core"
	stmw "github.com/JonMunkholm/stacktable/internal/web/middleware"
)

// withRequestMetadata adds the client address and User-Agent to ctx.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, stmw.ClientIP(r), r.UserAgent())
}
