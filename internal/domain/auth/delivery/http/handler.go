package http

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/domain/auth/dto"
	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
	autherrors "github.com/Conte777/fanscraper/internal/domain/auth/errors"
	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
	"github.com/Conte777/fanscraper/pkg/httputil"
)

const releaseTimeout = 10 * time.Second

// Handler handles auth session HTTP requests
type Handler struct {
	useCase deps.UseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a new auth handler
func NewHandler(useCase deps.UseCase, mapper *pkgerrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		useCase: useCase,
		mapper:  mapper,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /api/v1/auths/login
func (h *Handler) Login(ctx *fasthttp.RequestCtx) {
	var req dto.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	doc, err := json.Marshal(req.Auth)
	if err != nil {
		httputil.WriteErrorResponse(ctx, "invalid auth document", fasthttp.StatusBadRequest)
		return
	}

	creds, err := entities.ParseCredentials(doc)
	if err != nil {
		httputil.WriteErrorResponse(ctx, "invalid auth document", fasthttp.StatusBadRequest)
		return
	}

	session, err := h.useCase.Login(ctx, creds, req.Guest)
	if err != nil {
		h.logger.Warn().Err(err).Int64("auth_id", creds.ID).Msg("login request failed")
		h.writeError(ctx, err)
		return
	}

	registered := h.isRegistered(session)

	resp := dto.NewSessionResponse(session)
	resp.Registered = registered
	httputil.WriteResponse(ctx, resp)

	// an unregistered guest session is owned by this request
	if !registered {
		h.release(session)
	}
}

func (h *Handler) isRegistered(session *entities.AuthSession) bool {
	registered, ok := h.useCase.FindAuth(session.ID)
	return ok && registered == session
}

func (h *Handler) release(session *entities.AuthSession) {
	requester := session.Requester()
	if requester == nil {
		return
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if err := requester.Close(closeCtx); err != nil {
		h.logger.Warn().Err(err).Int64("auth_id", session.ID).Msg("failed to release guest session")
	}
}

// ListAuths handles GET /api/v1/auths
func (h *Handler) ListAuths(ctx *fasthttp.RequestCtx) {
	sessions := h.useCase.ListAuths()

	resp := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, dto.NewSessionResponse(s))
	}

	httputil.WriteResponse(ctx, resp)
}

// GetAuth handles GET /api/v1/auths/{id}
func (h *Handler) GetAuth(ctx *fasthttp.RequestCtx) {
	id, ok := h.parseID(ctx)
	if !ok {
		return
	}

	session, found := h.useCase.FindAuth(id)
	if !found {
		h.writeError(ctx, autherrors.ErrSessionNotFound)
		return
	}

	httputil.WriteResponse(ctx, dto.NewSessionResponse(session))
}

// RemoveAuth handles DELETE /api/v1/auths/{id}
func (h *Handler) RemoveAuth(ctx *fasthttp.RequestCtx) {
	id, ok := h.parseID(ctx)
	if !ok {
		return
	}

	err := h.useCase.RemoveAuth(ctx, id)

	var releaseErr *autherrors.ResourceReleaseError
	switch {
	case err == nil:
		httputil.WriteResponse(ctx, map[string]any{"id": id, "removed": true})
	case errors.As(err, &releaseErr):
		httputil.WriteResponse(ctx, map[string]any{"id": id, "removed": true, "warning": releaseErr.Error()})
	default:
		h.writeError(ctx, err)
	}
}

// Sweep handles POST /api/v1/auths/sweep
func (h *Handler) Sweep(ctx *fasthttp.RequestCtx) {
	report, err := h.useCase.SweepInvalid(ctx)

	resp := dto.SweepResponse{
		Checked: report.Checked,
		Removed: report.Removed,
		Failed:  report.Failed,
		SweptAt: time.Now().UTC(),
	}
	if err != nil {
		resp.Warnings = []string{err.Error()}
	}

	httputil.WriteResponse(ctx, resp)
}

func (h *Handler) parseID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteErrorResponse(ctx, "id must be a positive integer", fasthttp.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, message := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, message, status)
}
