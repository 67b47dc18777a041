package syncer

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/strongclose/media-offload/internal/attachment"
	"github.com/valyala/fasthttp"
)

// Endpoints exposes the sync engine to the batch driver UI, which
// invokes batches page by page and renders the per-attachment log.
type Endpoints struct {
	service *Service
}

func NewEndpoints(service *Service) *Endpoints {
	return &Endpoints{service: service}
}

type batchRequest struct {
	Mode               string `json:"mode"`
	Offset             int    `json:"offset"`
	BatchSize          int    `json:"batchSize"`
	RegenerateMetadata bool   `json:"regenerateMetadata"`
	PauseMillis        int    `json:"pauseMillis"`
}

func (e *Endpoints) RunBatch(ctx *fasthttp.RequestCtx) {
	var req batchRequest
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			ctx.Error("Invalid request body", fasthttp.StatusBadRequest)
			return
		}
	}

	mode, err := ParseMode(req.Mode)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return
	}

	result, err := e.service.RunBatch(ctx, Params{
		Mode:               mode,
		Offset:             req.Offset,
		BatchSize:          req.BatchSize,
		RegenerateMetadata: req.RegenerateMetadata,
		Pause:              time.Duration(req.PauseMillis) * time.Millisecond,
	})
	if err != nil {
		if IsNotConfigured(err) {
			ctx.Error(err.Error(), fasthttp.StatusPreconditionFailed)
			return
		}
		log.Error().Err(err).Msg("Batch sync failed")
		ctx.Error("Batch sync failed", fasthttp.StatusInternalServerError)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, result)
}

func (e *Endpoints) Progress(ctx *fasthttp.RequestCtx) {
	progress, err := e.service.Progress()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read sync progress")
		ctx.Error("Failed to read sync progress", fasthttp.StatusInternalServerError)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, progress)
}

type syncOneRequest struct {
	Mode               string `json:"mode"`
	RegenerateMetadata bool   `json:"regenerateMetadata"`
}

func (e *Endpoints) SyncOne(ctx *fasthttp.RequestCtx) {
	id, ok := attachmentID(ctx)
	if !ok {
		return
	}

	var req syncOneRequest
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			ctx.Error("Invalid request body", fasthttp.StatusBadRequest)
			return
		}
	}

	mode, err := ParseMode(req.Mode)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return
	}

	outcome, err := e.service.SyncAttachment(ctx, id, mode, req.RegenerateMetadata)
	if err != nil {
		switch {
		case IsNotConfigured(err):
			ctx.Error(err.Error(), fasthttp.StatusPreconditionFailed)
		case err == attachment.ErrNotFound:
			ctx.Error("Attachment not found", fasthttp.StatusNotFound)
		default:
			log.Error().Err(err).Int64("attachmentId", id).Msg("Manual sync failed")
			ctx.Error("Sync failed", fasthttp.StatusInternalServerError)
		}
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, outcome)
}

func (e *Endpoints) PurgeRemote(ctx *fasthttp.RequestCtx) {
	id, ok := attachmentID(ctx)
	if !ok {
		return
	}

	if err := e.service.PurgeRemote(ctx, id); err != nil {
		if err == attachment.ErrNotFound {
			ctx.Error("Attachment not found", fasthttp.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("attachmentId", id).Msg("Remote purge failed")
		ctx.Error("Remote purge failed", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func (e *Endpoints) TestConnection(ctx *fasthttp.RequestCtx) {
	if err := e.service.TestConnection(ctx); err != nil {
		if IsNotConfigured(err) {
			ctx.Error(err.Error(), fasthttp.StatusPreconditionFailed)
			return
		}
		ctx.Error(err.Error(), fasthttp.StatusBadGateway)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func attachmentID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, ok := ctx.UserValue("attachmentID").(string)
	if !ok || raw == "" {
		ctx.Error("Attachment ID is required", fasthttp.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ctx.Error("Invalid attachment ID", fasthttp.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
