package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/interfaces"
	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
	"github.com/m-mizutani/pushgram/pkg/utils/errutil"
)

// WebhookHandler handles GitLab push webhooks
type WebhookHandler struct {
	dispatchUC  interfaces.DispatchUseCase
	maxBodySize int64
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(dispatchUC interfaces.DispatchUseCase, maxBodySize int64) *WebhookHandler {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &WebhookHandler{
		dispatchUC:  dispatchUC,
		maxBodySize: maxBodySize,
	}
}

// Handle processes POST /gitlab/{webhookUrl}
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	webhookURL := types.WebhookURL(chi.URLParam(r, "webhookUrl"))
	if webhookURL == "" {
		h.handleError(w, r, goerr.New("webhook URL is missing", goerr.T(types.ErrTagBadRequest)))
		return
	}
	ctx = ctxlog.With(ctx, ctxlog.From(ctx).With(slog.String("webhook_url", webhookURL.String())))
	r = r.WithContext(ctx)

	// Read payload
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		h.handleError(w, r, goerr.Wrap(err, "failed to read request body", goerr.T(types.ErrTagBadRequest)))
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	event, err := model.ParsePushEvent(body)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.dispatchUC.Dispatch(ctx, webhookURL, event); err != nil {
		h.handleError(w, r, err)
		return
	}

	// Success response
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode success response", "error", err)
	}
}

// handleError translates a failure into exactly one HTTP status. Client side
// failures are logged as warnings, the rest are reported as errors.
func (h *WebhookHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := StatusOf(err)

	if status >= http.StatusInternalServerError {
		errutil.Handle(ctx, "Failed to process webhook", err)
	} else {
		ctxlog.From(ctx).Warn("Rejected webhook", "status", status, "error", err)
	}

	writeError(ctx, w, err, status)
}

// StatusClientClosedRequest is reported when the caller went away before
// delivery started. Nobody reads the response; it keeps the failure out of 5xx.
const StatusClientClosedRequest = 499

// StatusOf maps an error kind to an HTTP status code
func StatusOf(err error) int {
	switch {
	case goerr.HasTag(err, types.ErrTagCancelled):
		return StatusClientClosedRequest
	case goerr.HasTag(err, types.ErrTagBadRequest):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.ErrTagNotFound),
		goerr.HasTag(err, types.ErrTagUnconfigured):
		return http.StatusNotFound
	case goerr.HasTag(err, types.ErrTagUnprocessableEvent):
		return http.StatusUnprocessableEntity
	case goerr.HasTag(err, types.ErrTagDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
