package status

import (
	"github.com/goccy/go-json"
	"github.com/strongclose/media-offload/internal/syncer"
	"github.com/valyala/fasthttp"
)

type StatusEndpoints struct {
	version string
	service *syncer.Service
}

func NewEndpoints(version string, service *syncer.Service) *StatusEndpoints {
	return &StatusEndpoints{
		version: version,
		service: service,
	}
}

type StatusResponse struct {
	Health  string `json:"health"`
	Version string `json:"version"`
	Total   int    `json:"total"`
	Synced  int    `json:"synced"`
}

func (se *StatusEndpoints) Status(ctx *fasthttp.RequestCtx) {
	progress, err := se.service.Progress()
	if err != nil {
		ctx.Error("Failed to read sync progress", fasthttp.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		Health:  "OK",
		Version: se.version,
		Total:   progress.Total,
		Synced:  progress.Synced,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(responseJSON)
}
