// Package verifier is the relying-party side of the protocol: it checks a
// submitted proof bundle cryptographically, enforces one-time use through the
// nullifier ledger, and reports the per-claim boolean outcomes. It makes no
// age or name policy decision; a false claim outcome is a result, not an
// error.
package verifier

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	attestation "attesto/contracts/attestation"
	"attesto/internal/audit"
	"attesto/internal/claims"
	"attesto/internal/ledger"
	verifiermetrics "attesto/internal/verifier/metrics"
	"attesto/internal/verifier/ports"
	"attesto/internal/zk"
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
	"attesto/pkg/platform/sentinel"
	"attesto/pkg/requestcontext"
)

var tracer = otel.Tracer("attesto/internal/verifier")

// DefaultDateTolerance is the allowed distance, in whole days, between the
// bundle's public current date and the verifier's own clock.
const DefaultDateTolerance = 1

// Terminal outcome labels. They double as audit reasons and metric label
// values so the log stream, the event stream and the metrics agree.
const (
	outcomeAccepted = "accepted"
	outcomeInvalid  = string(dErrors.CodeProofInvalid)
	outcomeReplay   = string(dErrors.CodeProofAlreadyUsed)
)

// Result is the verifier's answer for an accepted bundle: one boolean per
// declared output plus the receipt the nullifier consume produced.
type Result struct {
	ClaimID    domain.ClaimID
	Outcomes   map[string]bool
	Nullifier  domain.Nullifier
	Receipt    *ledger.Receipt
	VerifiedAt time.Time
}

// ClaimDescriptor describes a registered claim for the discovery endpoint:
// the input schemas by field name and the circuit the proofs must target.
type ClaimDescriptor struct {
	ID                 domain.ClaimID
	PrivateFields      []string
	PublicFields       []string
	Outputs            []string
	Constraints        int
	VerifyingKeyDigest string
}

// Service orchestrates bundle verification.
type Service struct {
	registry *claims.Registry
	verifier ports.ProofVerifier
	ledger   ports.NullifierLedger
	audit    ports.AuditEmitter
	logger   *slog.Logger
	metrics  *verifiermetrics.Metrics

	clock         func() time.Time
	dateTolerance int
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires verification metrics.
func WithMetrics(m *verifiermetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAudit wires the emitter that records terminal outcomes.
func WithAudit(emitter ports.AuditEmitter) Option {
	return func(s *Service) {
		s.audit = emitter
	}
}

// WithClock sets the time source for the trusted-date window and receipt
// timestamps. Tests use it to pin the calendar.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithDateTolerance sets the trusted-date window in whole days. Zero means
// the bundle's current date must equal the verifier's.
func WithDateTolerance(days int) Option {
	return func(s *Service) {
		if days >= 0 {
			s.dateTolerance = days
		}
	}
}

// NewService constructs a Service over the claim registry, the proof
// verification backend and the nullifier ledger.
func NewService(registry *claims.Registry, verifier ports.ProofVerifier, nullifiers ports.NullifierLedger, opts ...Option) *Service {
	s := &Service{
		registry:      registry,
		verifier:      verifier,
		ledger:        nullifiers,
		logger:        slog.Default(),
		clock:         time.Now,
		dateTolerance: DefaultDateTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify runs the full check sequence on a submitted bundle: registry lookup,
// structural validation of the public inputs, the trusted-date window, the
// cryptographic check, and the one-time-use ledger write. Every terminal
// outcome, accepted or rejected, emits one audit event keyed on the
// nullifier.
//
// Errors: CodeUnknownClaim, CodeMalformedPublicInputs, CodeProofInvalid,
// CodeProofAlreadyUsed, CodeVerifierUnavailable.
func (s *Service) Verify(ctx context.Context, bundle attestation.ProofBundle) (*Result, error) {
	start := time.Now()

	claimID, err := domain.ParseClaimID(bundle.ClaimID)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeUnknownClaim, "claim %q is not registered", bundle.ClaimID)
	}
	spec, err := s.registry.Get(claimID)
	if err != nil {
		return nil, err
	}

	reqHash, err := domain.ParseRequirementHash(bundle.RequirementHash)
	if err != nil {
		return nil, err
	}

	seq, err := parsePublicInputs(bundle.PublicInputs)
	if err != nil {
		return nil, err
	}
	if err := spec.ValidatePublicSeq(seq); err != nil {
		return nil, err
	}
	if err := s.checkTrustedDate(spec, seq); err != nil {
		return nil, err
	}

	// The nullifier rides in the public inputs; once the proof verifies, the
	// circuit has already pinned it to the holder's secret.
	nullifier := zk.NullifierKey(seq[spec.PublicIndex(claims.FieldNullifier)])

	checkStart := time.Now()
	valid, err := s.verifier.Verify(ctx, spec.ID, bundle.Proof, seq)
	s.metrics.ObserveProofCheckLatency(time.Since(checkStart))
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	if !valid {
		s.emitTerminal(ctx, spec.ID, reqHash, nullifier, false, outcomeInvalid)
		s.metrics.IncrementOutcome(spec.ID.String(), outcomeInvalid)
		s.metrics.ObserveVerifyLatency(time.Since(start))
		return nil, dErrors.Newf(dErrors.CodeProofInvalid, "proof for claim %s does not verify", spec.ID)
	}

	receipt := ledger.Receipt{
		ID:              domain.NewReceiptID(),
		Nullifier:       nullifier,
		ClaimID:         spec.ID,
		RequirementHash: reqHash,
		ConsumedAt:      s.clock().UTC(),
		Used:            true,
	}
	if err := s.consume(ctx, &receipt); err != nil {
		if dErrors.HasCode(err, dErrors.CodeProofAlreadyUsed) {
			s.emitTerminal(ctx, spec.ID, reqHash, nullifier, false, outcomeReplay)
			s.metrics.IncrementOutcome(spec.ID.String(), outcomeReplay)
			s.metrics.ObserveVerifyLatency(time.Since(start))
		}
		return nil, err
	}

	outcomes := make(map[string]bool, len(spec.Outputs()))
	for _, name := range spec.Outputs() {
		outcomes[name] = seq[spec.PublicIndex(name)].Sign() != 0
	}

	s.emitTerminal(ctx, spec.ID, reqHash, nullifier, true, "")
	s.metrics.IncrementOutcome(spec.ID.String(), outcomeAccepted)
	s.metrics.ObserveVerifyLatency(time.Since(start))
	s.logger.InfoContext(ctx, "bundle accepted",
		"claim_id", spec.ID.String(),
		"nullifier", nullifier.String(),
		"receipt_id", receipt.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Result{
		ClaimID:    spec.ID,
		Outcomes:   outcomes,
		Nullifier:  nullifier,
		Receipt:    &receipt,
		VerifiedAt: receipt.ConsumedAt,
	}, nil
}

// consume writes the receipt through the ledger's check-and-set. An ambiguous
// write failure is resolved by re-reading the ledger state for the nullifier,
// never by blind retry: the write is the one non-idempotent step.
func (s *Service) consume(ctx context.Context, receipt *ledger.Receipt) error {
	ctx, span := tracer.Start(ctx, "ledger.TryConsume",
		trace.WithAttributes(
			attribute.String("claim.id", receipt.ClaimID.String()),
			attribute.String("nullifier", receipt.Nullifier.String()),
		))
	defer span.End()

	err := s.ledger.TryConsume(ctx, *receipt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Newf(dErrors.CodeProofAlreadyUsed,
			"nullifier %s was already consumed for claim %s", receipt.Nullifier, receipt.ClaimID)
	}

	stored, findErr := s.ledger.Find(ctx, receipt.Nullifier)
	switch {
	case findErr == nil && stored.ID == receipt.ID:
		// Our write landed before the failure surfaced.
		return nil
	case findErr == nil:
		return dErrors.Newf(dErrors.CodeProofAlreadyUsed,
			"nullifier %s was already consumed for claim %s", receipt.Nullifier, receipt.ClaimID)
	default:
		return dErrors.Wrap(err, dErrors.CodeVerifierUnavailable, "nullifier ledger unreachable")
	}
}

// Receipt returns the stored receipt for a nullifier.
//
// Errors: CodeNotFound when the nullifier was never consumed.
func (s *Service) Receipt(ctx context.Context, nullifier domain.Nullifier) (*ledger.Receipt, error) {
	receipt, err := s.ledger.Find(ctx, nullifier)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no receipt for nullifier %s", nullifier)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeVerifierUnavailable, "nullifier ledger unreachable")
	}
	return receipt, nil
}

// Receipts lists recent receipts, newest first, optionally narrowed by claim.
func (s *Service) Receipts(ctx context.Context, filter ledger.Filter) ([]*ledger.Receipt, error) {
	receipts, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeVerifierUnavailable, "nullifier ledger unreachable")
	}
	return receipts, nil
}

// Claims describes every registered claim, in registration order. Claims
// without a loaded circuit are still listed; their descriptor just carries no
// key digest.
func (s *Service) Claims() []ClaimDescriptor {
	specs := s.registry.List()
	out := make([]ClaimDescriptor, 0, len(specs))
	for _, spec := range specs {
		d := ClaimDescriptor{
			ID:            spec.ID,
			PrivateFields: fieldNames(spec.Private),
			PublicFields:  fieldNames(spec.Public),
			Outputs:       spec.Outputs(),
		}
		if info, ok := s.verifier.Info(spec.ID); ok {
			d.Constraints = info.Constraints
			d.VerifyingKeyDigest = info.VerifyingKeyDigest
		}
		out = append(out, d)
	}
	return out
}

// checkTrustedDate enforces the verifier-clock window on claims whose schema
// carries a public current date. The prover never dictates the effective
// date: a bundle dated more than the tolerance away from this process's
// clock is rejected before any cryptography runs.
func (s *Service) checkTrustedDate(spec claims.Spec, seq []*big.Int) error {
	yIdx := spec.PublicIndex(claims.FieldCurrentYear)
	mIdx := spec.PublicIndex(claims.FieldCurrentMonth)
	dIdx := spec.PublicIndex(claims.FieldCurrentDay)
	if yIdx < 0 || mIdx < 0 || dIdx < 0 {
		return nil
	}

	bundleDate := claims.Date{
		Year:  int(seq[yIdx].Int64()),
		Month: int(seq[mIdx].Int64()),
		Day:   int(seq[dIdx].Int64()),
	}
	point := time.Date(bundleDate.Year, time.Month(bundleDate.Month), bundleDate.Day, 0, 0, 0, 0, time.UTC)
	if claims.DateOf(point) != bundleDate {
		// Day 31 in a 30-day month survives the per-field range checks but
		// names no real date the clock could ever be near.
		return dErrors.Newf(dErrors.CodeMalformedPublicInputs,
			"current date %s does not exist on the calendar", bundleDate)
	}

	today := claims.DateOf(s.clock().UTC())
	anchor := time.Date(today.Year, time.Month(today.Month), today.Day, 0, 0, 0, 0, time.UTC)
	days := int(point.Sub(anchor).Hours() / 24)
	if days < 0 {
		days = -days
	}
	if days > s.dateTolerance {
		return dErrors.Newf(dErrors.CodeMalformedPublicInputs,
			"current date %s is outside the verifier's %d-day window around %s", bundleDate, s.dateTolerance, today)
	}
	return nil
}

// emitTerminal records a terminal outcome on the audit stream. Delivery
// failure never fails the verification that produced the event; the publisher
// logs what it drops.
func (s *Service) emitTerminal(ctx context.Context, claimID domain.ClaimID, reqHash domain.RequirementHash, nullifier domain.Nullifier, accepted bool, reason string) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		IdentityRef:     requestcontext.PartyID(ctx).String(),
		ClaimID:         claimID,
		RequirementHash: reqHash,
		Nullifier:       nullifier,
		Timestamp:       s.clock().UTC(),
		Accepted:        accepted,
		Reason:          reason,
		RequestID:       requestcontext.RequestID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"claim_id", claimID.String(),
			"nullifier", nullifier.String(),
			"accepted", accepted,
			"error", err,
		)
	}
}

// parsePublicInputs decodes the wire strings into field elements. Length
// mismatches are left to the schema validation so the error names the claim.
func parsePublicInputs(raw []string) ([]*big.Int, error) {
	seq := make([]*big.Int, len(raw))
	for i, s := range raw {
		v, err := zk.ParseFieldElement(s)
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeMalformedPublicInputs, "public input %d is not a field element", i)
		}
		seq[i] = v
	}
	return seq, nil
}

// wrapBackendErr keeps coded backend errors intact and classifies everything
// else as an outage.
func wrapBackendErr(err error) error {
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeVerifierUnavailable, "proof verification backend failed")
}

func fieldNames(fields []claims.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}
