package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

// AuthMiddleware guards the admin API with a static bearer token from
// configuration. An empty token disables the check, for local-only
// deployments.
type AuthMiddleware struct {
	token string
}

func NewAuthMiddleware(token string) *AuthMiddleware {
	if token == "" {
		log.Warn().Msg("Admin token not configured, admin API is unauthenticated")
	}
	return &AuthMiddleware{token: token}
}

func (am *AuthMiddleware) RequireAuth(handler fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if am.token == "" {
			handler(ctx)
			return
		}

		header := string(ctx.Request.Header.Peek("Authorization"))
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(am.token)) != 1 {
			log.Error().Msg("Authentication failed")
			ctx.Error("Unauthorized", fasthttp.StatusUnauthorized)
			return
		}

		handler(ctx)
	}
}
