package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	attestation "attesto/contracts/attestation"
	"attesto/internal/ledger"
	"attesto/internal/verifier"
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
	"attesto/pkg/platform/httputil"
	"attesto/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	Verify(ctx context.Context, bundle attestation.ProofBundle) (*verifier.Result, error)
	Receipt(ctx context.Context, nullifier domain.Nullifier) (*ledger.Receipt, error)
	Receipts(ctx context.Context, filter ledger.Filter) ([]*ledger.Receipt, error)
	Claims() []verifier.ClaimDescriptor
}

// Handler wires verification endpoints to the verifier service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verifier handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts verification endpoints on the router. Every route here
// expects an authenticated party; mount behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/verify", h.HandleVerify)
	r.Get("/v1/receipts", h.HandleListReceipts)
	r.Get("/v1/receipts/{nullifier}", h.HandleGetReceipt)
	r.Get("/v1/claims", h.HandleListClaims)
}

// HandleVerify handles POST /v1/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	partyID, ok := h.requireParty(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Verify(ctx, req.Bundle())
	if err != nil {
		h.logger.ErrorContext(ctx, "bundle verification failed",
			"request_id", requestID,
			"party_id", partyID,
			"claim_id", req.ClaimID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "bundle verified",
		"request_id", requestID,
		"party_id", partyID,
		"claim_id", req.ClaimID,
		"nullifier", result.Nullifier.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleGetReceipt handles GET /v1/receipts/{nullifier} requests.
func (h *Handler) HandleGetReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, ok := h.requireParty(w, ctx); !ok {
		return
	}

	nullifier, err := domain.ParseNullifier(chi.URLParam(r, "nullifier"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipt, err := h.service.Receipt(ctx, nullifier)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "receipt lookup failed",
				"request_id", requestID,
				"nullifier", nullifier.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromReceipt(receipt))
}

// HandleListReceipts handles GET /v1/receipts requests. Optional query
// parameters: claim_id narrows to one claim, limit caps the page size.
func (h *Handler) HandleListReceipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, ok := h.requireParty(w, ctx); !ok {
		return
	}

	filter, err := receiptFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipts, err := h.service.Receipts(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "receipt listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromReceipts(receipts))
}

// HandleListClaims handles GET /v1/claims requests.
func (h *Handler) HandleListClaims(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireParty(w, r.Context()); !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDescriptors(h.service.Claims()))
}

// requireParty rejects unauthenticated requests and writes the response
// itself, mirroring the DecodeAndPrepare bail-out shape.
func (h *Handler) requireParty(w http.ResponseWriter, ctx context.Context) (domain.PartyID, bool) {
	partyID := requestcontext.PartyID(ctx)
	if partyID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return partyID, true
}

// receiptFilter parses the optional claim_id and limit query parameters.
func receiptFilter(r *http.Request) (ledger.Filter, error) {
	var filter ledger.Filter

	if raw := r.URL.Query().Get("claim_id"); raw != "" {
		claimID, err := domain.ParseClaimID(raw)
		if err != nil {
			return ledger.Filter{}, err
		}
		filter.ClaimIDs = []domain.ClaimID{claimID}
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return ledger.Filter{}, dErrors.New(dErrors.CodeValidation, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}
