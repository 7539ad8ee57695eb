package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"famiverse/internal/app/care"
	"famiverse/internal/app/evolution"
	"famiverse/internal/app/familiars"
	"famiverse/internal/app/mutation"
	"famiverse/internal/app/ports"
	"famiverse/internal/app/replay"
	"famiverse/internal/domain/familiar"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const userIDHeader = "X-User-ID"

type Handler struct {
	FamiliarsUC familiars.UseCase
	CareUC      care.UseCase
	MutationUC  mutation.UseCase
	ReplayUC    replay.UseCase
	Cycles      evolution.Cycles
	KPI         kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.POST("/api/familiar", h.create)
	s.GET("/api/familiar", h.get)

	fam := s.Group("/api/familiar")
	fam.POST("/care", h.careAction)
	fam.POST("/mutation/trigger", h.mutationTrigger)
	fam.POST("/mutation/choose", h.mutationChoose)
	fam.POST("/privacy", h.privacy)
	fam.GET("/replay", h.replayEvents)

	s.GET("/ops/kpi", h.kpi)
}

type careRequest struct {
	Action string `json:"action"`
}

type chooseRequest struct {
	SessionID string `json:"session_id"`
	OptionID  string `json:"option_id"`
}

type privacyRequest struct {
	OptIn bool `json:"opt_in"`
}

func (h Handler) create(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	f, created, err := h.FamiliarsUC.Create(c, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	// Timer chains are armed exactly once, on the creating call. Chains
	// re-arm themselves, so arming again on an idempotent re-create would
	// permanently double the aging and decay rate.
	if created {
		if err := h.Cycles.Start(c, userID); err != nil {
			writeError(ctx, err)
			return
		}
	}

	ctx.JSON(consts.StatusCreated, f)
}

func (h Handler) get(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	f, err := h.FamiliarsUC.Get(c, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, f)
}

func (h Handler) careAction(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body careRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.CareUC.PerformAction(c, userID, familiar.CareAction(body.Action))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) mutationTrigger(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.MutationUC.Trigger(c, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) mutationChoose(c context.Context, ctx *app.RequestContext) {
	if _, err := requireUserID(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	var body chooseRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	m, err := h.MutationUC.Choose(c, body.SessionID, body.OptionID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, m)
}

func (h Handler) privacy(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body privacyRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	f, err := h.FamiliarsUC.SetPrivacy(c, userID, body.OptIn)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, f)
}

func (h Handler) replayEvents(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		FamiliarID:   userID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingUserIDHeader = errors.New("missing x-user-id header")

func requireUserID(ctx *app.RequestContext) (string, error) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	if userID == "" {
		return "", ErrMissingUserIDHeader
	}
	return userID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	var cooldownErr *ports.CooldownError
	var incompatErr *ports.IncompatibleError
	switch {
	case errors.Is(err, ErrMissingUserIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_id", err.Error())
	case errors.As(err, &cooldownErr):
		ctx.JSON(consts.StatusTooManyRequests, map[string]any{
			"error": map[string]any{
				"code":                "care_cooldown_active",
				"message":             err.Error(),
				"action":              string(cooldownErr.Action),
				"retry_after_seconds": int(cooldownErr.Remaining.Seconds()),
			},
		})
	case errors.As(err, &incompatErr):
		ctx.JSON(consts.StatusConflict, map[string]any{
			"error": map[string]any{
				"code":        "mutation_incompatible",
				"message":     err.Error(),
				"category":    string(incompatErr.Category),
				"conflicts":   incompatErr.Conflicts,
				"suggestions": incompatErr.Suggestions,
			},
		})
	case errors.Is(err, ports.ErrInsufficientPoints):
		writeErrorBody(ctx, consts.StatusBadRequest, "insufficient_evolution_points", err.Error())
	case errors.Is(err, ports.ErrSessionExpired):
		writeErrorBody(ctx, consts.StatusGone, "mutation_session_expired", err.Error())
	case errors.Is(err, mutation.ErrUnknownOption):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_mutation_option", err.Error())
	case errors.Is(err, care.ErrUnknownAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_care_action", err.Error())
	case errors.Is(err, familiars.ErrInvalidRequest),
		errors.Is(err, care.ErrInvalidRequest),
		errors.Is(err, mutation.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ports.ErrStoreUnavailable):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "store_unavailable", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
