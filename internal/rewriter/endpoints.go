package rewriter

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/strongclose/media-offload/internal/attachment"
	"github.com/strongclose/media-offload/internal/syncer"
	"github.com/valyala/fasthttp"
)

// Endpoints serves remote URLs for attachments, used by the host to
// render already-offloaded media.
type Endpoints struct {
	store   attachment.Store
	enabled bool
}

func NewEndpoints(store attachment.Store, enabled bool) *Endpoints {
	return &Endpoints{store: store, enabled: enabled}
}

type urlResponse struct {
	URL     string `json:"url"`
	Remote  bool   `json:"remote"`
	AssetID int64  `json:"assetId"`
}

// AttachmentURL returns the public URL for an attachment, optionally
// for a named derivative size via ?size=. When rewriting is disabled
// or the attachment is not synced, the local path is returned instead.
func (e *Endpoints) AttachmentURL(ctx *fasthttp.RequestCtx) {
	raw, ok := ctx.UserValue("attachmentID").(string)
	if !ok || raw == "" {
		ctx.Error("Attachment ID is required", fasthttp.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ctx.Error("Invalid attachment ID", fasthttp.StatusBadRequest)
		return
	}

	att, err := e.store.Get(id)
	if err != nil {
		if err == attachment.ErrNotFound {
			ctx.Error("Attachment not found", fasthttp.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("attachmentId", id).Msg("Failed to load attachment")
		ctx.Error("Failed to load attachment", fasthttp.StatusInternalServerError)
		return
	}

	response := urlResponse{AssetID: id, URL: att.FilePath}

	if e.enabled {
		rec, err := syncer.LoadRecord(e.store, id)
		if err != nil {
			log.Error().Err(err).Int64("attachmentId", id).Msg("Failed to load sync record")
			ctx.Error("Failed to load sync record", fasthttp.StatusInternalServerError)
			return
		}

		size := string(ctx.QueryArgs().Peek("size"))
		switch {
		case size == "" || size == syncer.PrimaryName:
			if rec.PrimaryURL != "" {
				response.URL = rec.PrimaryURL
				response.Remote = true
			}
		case rec.HasSize(size):
			response.URL = rec.SizeURLs[size]
			response.Remote = true
		case rec.PrimaryURL != "":
			// Size never uploaded on its own: derive the variant URL
			// from the primary when its dimensions are known.
			sizes, err := e.store.GetSizes(id)
			if err == nil {
				if s, ok := sizes[size]; ok {
					response.URL = Rewrite(rec.PrimaryURL, "/"+att.SizePath(s))
					response.Remote = true
				}
			}
		}
	}

	body, err := json.Marshal(response)
	if err != nil {
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}
