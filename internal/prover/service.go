// Package prover is the holder side of the protocol: it turns raw identity
// attributes into circuit inputs, evaluates the claim predicate natively to
// learn the expected outcomes, and asks the proving backend for a proof bundle
// the verifier can check without seeing any attribute.
package prover

import (
	"context"
	"log/slog"
	"math/big"

	attestation "attesto/contracts/attestation"
	"attesto/internal/claims"
	"attesto/internal/zk"
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// CircuitProver is the proving capability the service delegates to. The
// Groth16 engine satisfies it; tests substitute a mock.
type CircuitProver interface {
	Prove(ctx context.Context, id domain.ClaimID, private, public claims.Inputs) ([]byte, error)
}

// Attributes are the holder's raw inputs. Only the fields the requested
// claim's schema names are consulted; the rest may stay zero.
type Attributes struct {
	// DateOfBirth in strict YYYY-MM-DD form.
	DateOfBirth string
	// PassportName is the name as acquired from the identity document.
	PassportName string
	// SubmittedName is the name the holder typed in.
	SubmittedName string
	// IdentitySecret is the holder's long-term secret field element. It
	// never leaves this process; only the nullifier derived from it does.
	IdentitySecret *big.Int
}

// Context is the public verification context the relying party published:
// the per-context salt, the date the claim is evaluated against, and the
// policy tag that scopes the requirement hash.
type Context struct {
	Salt        *big.Int
	CurrentDate claims.Date
	PolicyTag   string
}

// Request asks for one claim to be proven over the holder's attributes.
type Request struct {
	ClaimID    domain.ClaimID
	Attributes Attributes
	Context    Context
}

// Issued is the product of a successful proving run. Outcomes mirror the
// booleans sealed into the bundle so the holder knows what it is about to
// submit; a false outcome is still a valid, submittable proof.
type Issued struct {
	Bundle    attestation.ProofBundle
	Outcomes  map[string]bool
	Nullifier domain.Nullifier
}

// Service assembles proof requests. It holds no state beyond its collaborators.
type Service struct {
	registry *claims.Registry
	prover   CircuitProver
	logger   *slog.Logger
}

func NewService(registry *claims.Registry, prover CircuitProver, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		prover:   prover,
		logger:   logger,
	}
}

// RequestProof maps the holder's attributes onto the claim schema, evaluates
// the predicate, and produces the submittable bundle.
//
// Errors: CodeUnknownClaim for an unregistered claim; CodeInvalidInputShape
// when attributes are missing or outside their domain; CodeProverUnavailable
// and CodeProofGenerationFailed pass through from the proving backend.
func (s *Service) RequestProof(ctx context.Context, req Request) (*Issued, error) {
	spec, err := s.registry.Get(req.ClaimID)
	if err != nil {
		return nil, err
	}

	private, public, err := assemble(spec, req)
	if err != nil {
		return nil, err
	}

	outcomes, err := spec.Predicate(private, public)
	if err != nil {
		return nil, err
	}
	for name, v := range outcomes {
		public[name] = boolField(v)
	}
	if err := spec.CheckInputs(private, public); err != nil {
		return nil, err
	}

	proof, err := s.prover.Prove(ctx, spec.ID, private, public)
	if err != nil {
		return nil, err
	}

	seq, err := spec.PublicSeq(public)
	if err != nil {
		return nil, err
	}
	inputs := make([]string, len(seq))
	for i, v := range seq {
		inputs[i] = zk.FormatFieldElement(v)
	}

	nullifier := zk.NullifierKey(public[claims.FieldNullifier])
	issued := &Issued{
		Bundle: attestation.ProofBundle{
			ContractVersion: attestation.ContractVersion,
			ClaimID:         spec.ID.String(),
			Proof:           proof,
			PublicInputs:    inputs,
			RequirementHash: claims.Requirement(spec.ID, req.Context.Salt, req.Context.PolicyTag).String(),
		},
		Outcomes:  outcomes,
		Nullifier: nullifier,
	}

	s.logger.DebugContext(ctx, "issued proof bundle",
		"claim_id", spec.ID.String(),
		"nullifier", nullifier.String(),
		"public_inputs", len(inputs),
	)
	return issued, nil
}

// assemble fills the claim's private and public schemas from the request.
// Boolean output fields stay unset here; the predicate fills them afterwards.
func assemble(spec claims.Spec, req Request) (claims.Inputs, claims.Inputs, error) {
	salt := req.Context.Salt
	if !claims.KindField.InDomain(salt) {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInputShape, "context salt must be a scalar field element")
	}
	secret := req.Attributes.IdentitySecret
	if !claims.KindField.InDomain(secret) {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInputShape, "identity secret must be a scalar field element")
	}

	private := make(claims.Inputs, len(spec.Private))
	var dob claims.Date
	dobParsed := false
	for _, f := range spec.Private {
		switch f.Name {
		case claims.FieldBirthYear, claims.FieldBirthMonth, claims.FieldBirthDay:
			if !dobParsed {
				var err error
				dob, err = claims.ParseDate(req.Attributes.DateOfBirth)
				if err != nil {
					return nil, nil, err
				}
				dobParsed = true
			}
			switch f.Name {
			case claims.FieldBirthYear:
				private[f.Name] = big.NewInt(int64(dob.Year))
			case claims.FieldBirthMonth:
				private[f.Name] = big.NewInt(int64(dob.Month))
			case claims.FieldBirthDay:
				private[f.Name] = big.NewInt(int64(dob.Day))
			}
		case claims.FieldPassportNameDigest:
			private[f.Name] = zk.NameDigest(salt, req.Attributes.PassportName)
		case claims.FieldSubmittedNameDigest:
			private[f.Name] = zk.NameDigest(salt, req.Attributes.SubmittedName)
		case claims.FieldIdentitySecret:
			private[f.Name] = secret
		default:
			return nil, nil, dErrors.Newf(dErrors.CodeInvalidInputShape, "no attribute backs private input %s", f.Name)
		}
	}

	public := make(claims.Inputs, len(spec.Public))
	currentNeeded := false
	for _, f := range spec.Public {
		switch f.Name {
		case claims.FieldCurrentYear, claims.FieldCurrentMonth, claims.FieldCurrentDay:
			currentNeeded = true
		case claims.FieldSalt:
			public[f.Name] = salt
		case claims.FieldNullifier:
			public[f.Name] = zk.NullifierFor(secret, spec.ID, salt)
		default:
			if f.Kind != claims.KindBool {
				return nil, nil, dErrors.Newf(dErrors.CodeInvalidInputShape, "no context value backs public input %s", f.Name)
			}
		}
	}
	if currentNeeded {
		if !req.Context.CurrentDate.Valid() {
			return nil, nil, dErrors.New(dErrors.CodeInvalidInputShape, "context current date is outside the calendar domain")
		}
		public[claims.FieldCurrentYear] = big.NewInt(int64(req.Context.CurrentDate.Year))
		public[claims.FieldCurrentMonth] = big.NewInt(int64(req.Context.CurrentDate.Month))
		public[claims.FieldCurrentDay] = big.NewInt(int64(req.Context.CurrentDate.Day))
	}
	return private, public, nil
}

func boolField(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}
