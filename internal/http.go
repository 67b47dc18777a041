package internal

import (
	"strings"

	"github.com/strongclose/media-offload/internal/health"
	"github.com/strongclose/media-offload/internal/middleware"
	"github.com/strongclose/media-offload/internal/rewriter"
	"github.com/strongclose/media-offload/internal/status"
	"github.com/strongclose/media-offload/internal/syncer"
	"github.com/strongclose/media-offload/internal/thumbnail"
	"github.com/valyala/fasthttp"
)

func NewRequestHandler(config *Config, syncEndpoints *syncer.Endpoints, rewriterEndpoints *rewriter.Endpoints, thumbnailEndpoints *thumbnail.Endpoints, statusEndpoints *status.StatusEndpoints, healthEndpoints *health.HealthEndpoints) fasthttp.RequestHandler {
	authMiddleware := middleware.NewAuthMiddleware(config.Server.AdminToken)
	corsMiddleware := middleware.NewCORSMiddleware(config.Server.AllowedOrigins)

	handler := func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())

		switch {
		case path == "/health":
			healthEndpoints.Health(ctx)
		case path == "/status":
			authMiddleware.RequireAuth(statusEndpoints.Status)(ctx)

		case path == "/sync/batch":
			method := string(ctx.Method())
			if method == "POST" {
				authMiddleware.RequireAuth(syncEndpoints.RunBatch)(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case path == "/sync/progress":
			method := string(ctx.Method())
			if method == "GET" {
				authMiddleware.RequireAuth(syncEndpoints.Progress)(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case strings.HasPrefix(path, "/sync/attachments/"):
			parts := strings.Split(path, "/")
			if len(parts) == 4 {
				ctx.SetUserValue("attachmentID", parts[3])
				method := string(ctx.Method())
				if method == "POST" {
					authMiddleware.RequireAuth(syncEndpoints.SyncOne)(ctx)
				} else {
					ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				}
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}

		case strings.HasPrefix(path, "/attachments/") && strings.HasSuffix(path, "/remote"):
			parts := strings.Split(path, "/")
			if len(parts) == 4 && parts[3] == "remote" {
				ctx.SetUserValue("attachmentID", parts[2])
				method := string(ctx.Method())
				if method == "DELETE" {
					authMiddleware.RequireAuth(syncEndpoints.PurgeRemote)(ctx)
				} else {
					ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				}
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}
		case strings.HasPrefix(path, "/attachments/") && strings.HasSuffix(path, "/thumbnails"):
			parts := strings.Split(path, "/")
			if len(parts) == 4 && parts[3] == "thumbnails" {
				ctx.SetUserValue("attachmentID", parts[2])
				method := string(ctx.Method())
				if method == "POST" {
					authMiddleware.RequireAuth(thumbnailEndpoints.Fix)(ctx)
				} else {
					ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				}
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}
		case strings.HasPrefix(path, "/attachments/") && strings.HasSuffix(path, "/url"):
			parts := strings.Split(path, "/")
			if len(parts) == 4 && parts[3] == "url" {
				ctx.SetUserValue("attachmentID", parts[2])
				rewriterEndpoints.AttachmentURL(ctx)
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}

		case path == "/remote/test":
			method := string(ctx.Method())
			if method == "POST" {
				authMiddleware.RequireAuth(syncEndpoints.TestConnection)(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}

		default:
			ctx.Error("Not Found", fasthttp.StatusNotFound)
		}
	}

	return corsMiddleware.Handle(handler)
}
