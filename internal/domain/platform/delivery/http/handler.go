package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/fanscraper/internal/domain/content/taxonomy"
	"github.com/Conte777/fanscraper/internal/domain/platform/facade"
	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
	"github.com/Conte777/fanscraper/pkg/httputil"
)

// Handler serves taxonomy lookups and service health
type Handler struct {
	api    *facade.API
	mapper *pkgerrors.Mapper
	logger zerolog.Logger
}

// NewHandler creates a new platform handler
func NewHandler(api *facade.API, mapper *pkgerrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		api:    api,
		mapper: mapper,
		logger: logger.With().Str("handler", "platform").Logger(),
	}
}

// MediaTypeResponse describes a resolved media type
type MediaTypeResponse struct {
	Raw      string `json:"raw"`
	Category string `json:"category"`
	Key      string `json:"key"`
}

// ContentTypeResponse describes a resolved content key
type ContentTypeResponse struct {
	Raw    string `json:"raw"`
	Key    string `json:"key"`
	Plural string `json:"plural"`
}

// ClassifyMedia handles GET /api/v1/taxonomy/media/{raw}
func (h *Handler) ClassifyMedia(ctx *fasthttp.RequestCtx) {
	raw, _ := ctx.UserValue("raw").(string)

	category, err := h.api.ClassifyMedia(raw)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, MediaTypeResponse{Raw: raw, Category: string(category), Key: category.Key()})
}

// ListMedia handles GET /api/v1/taxonomy/media
func (h *Handler) ListMedia(ctx *fasthttp.RequestCtx) {
	categories := h.api.MediaCategories()

	resp := make([]MediaTypeResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, MediaTypeResponse{Category: string(c), Key: c.Key()})
	}

	httputil.WriteResponse(ctx, resp)
}

// ClassifyContent handles GET /api/v1/taxonomy/content/{raw}
func (h *Handler) ClassifyContent(ctx *fasthttp.RequestCtx) {
	raw, _ := ctx.UserValue("raw").(string)

	key, err := h.api.ParseContentKey(raw)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	plural, err := taxonomy.Plural(key)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, ContentTypeResponse{Raw: raw, Key: string(key), Plural: plural})
}

// ListCollections handles GET /api/v1/taxonomy/content
func (h *Handler) ListCollections(ctx *fasthttp.RequestCtx) {
	httputil.WriteResponse(ctx, h.api.CollectionKeys())
}

// Health handles GET /health
func (h *Handler) Health(ctx *fasthttp.RequestCtx) {
	rulesLoaded := h.api.RulesLoaded()

	status := "ok"
	if !rulesLoaded {
		status = "degraded"
	}

	httputil.WriteHealthResponse(ctx, map[string]any{
		"status":       status,
		"site":         h.api.Name,
		"sessions":     len(h.api.Auths()),
		"rules_loaded": rulesLoaded,
	}, rulesLoaded)
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, message := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, message, status)
}
