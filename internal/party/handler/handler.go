// Package handler exposes the party credential exchange over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"attesto/internal/party"
	dErrors "attesto/pkg/domain-errors"
	"attesto/pkg/platform/httputil"
	"attesto/pkg/requestcontext"
)

// Service is the credential exchange the handler exposes.
type Service interface {
	Token(ctx context.Context, partyID, secret string) (*party.Token, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the token endpoint. It must stay outside the auth
// middleware: it is how parties obtain a token in the first place.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/token", h.HandleToken)
}

func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, err := h.service.Token(ctx, req.PartyID, req.PartySecret)
	if err != nil {
		// Credential rejections are warn-logged by the service with their
		// cause; only infrastructure failures are errors here.
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "token exchange failed",
				"request_id", requestID,
				"party_id", req.PartyID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "token exchanged",
		"request_id", requestID,
		"party_id", req.PartyID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromToken(token))
}
