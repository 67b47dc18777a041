package thumbnail

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/strongclose/media-offload/internal/attachment"
	"github.com/valyala/fasthttp"
)

type Endpoints struct {
	store attachment.Store
	fixer *Fixer
}

func NewEndpoints(store attachment.Store, fixer *Fixer) *Endpoints {
	return &Endpoints{store: store, fixer: fixer}
}

type fixResponse struct {
	AssetID   int64 `json:"assetId"`
	Generated int   `json:"generated"`
}

// Fix rebuilds the derivative set for one attachment.
func (e *Endpoints) Fix(ctx *fasthttp.RequestCtx) {
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

	generated, err := e.fixer.Fix(ctx, att)
	if err != nil {
		log.Error().Err(err).Int64("attachmentId", id).Msg("Failed to rebuild derivatives")
		ctx.Error(err.Error(), fasthttp.StatusUnprocessableEntity)
		return
	}

	body, err := json.Marshal(fixResponse{AssetID: id, Generated: generated})
	if err != nil {
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}
