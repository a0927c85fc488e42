package prover

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks CircuitProver

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	attestation "attesto/contracts/attestation"
	"attesto/internal/claims"
	"attesto/internal/prover/mocks"
	"attesto/internal/zk"
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockProver *mocks.MockCircuitProver
	service    *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockProver = mocks.NewMockCircuitProver(s.ctrl)

	registry, err := claims.Default()
	s.Require().NoError(err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(registry, s.mockProver, logger)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) newRequest(claimID domain.ClaimID) Request {
	return Request{
		ClaimID: claimID,
		Attributes: Attributes{
			DateOfBirth:    "1990-01-01",
			PassportName:   "John Smith",
			SubmittedName:  "john   smith",
			IdentitySecret: big.NewInt(123_456_789),
		},
		Context: Context{
			Salt:        big.NewInt(987_654_321),
			CurrentDate: claims.Date{Year: 2026, Month: 2, Day: 20},
			PolicyTag:   "kyc-basic",
		},
	}
}

func (s *ServiceSuite) TestRequestProof_Over18Adult() {
	req := s.newRequest(domain.ClaimOver18)

	s.mockProver.EXPECT().
		Prove(gomock.Any(), domain.ClaimOver18, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.ClaimID, private, public claims.Inputs) ([]byte, error) {
			// The predicate result is sealed into the witness before proving.
			s.Zero(public[claims.FieldOver18].Cmp(big.NewInt(1)))
			s.Zero(private[claims.FieldBirthYear].Cmp(big.NewInt(1990)))
			return []byte("proof-bytes"), nil
		})

	issued, err := s.service.RequestProof(context.Background(), req)
	s.Require().NoError(err)

	s.Equal(attestation.ContractVersion, issued.Bundle.ContractVersion)
	s.Equal("over_18", issued.Bundle.ClaimID)
	s.Equal([]byte("proof-bytes"), issued.Bundle.Proof)
	s.Len(issued.Bundle.RequirementHash, 64)
	s.True(issued.Outcomes[claims.FieldOver18])

	// Public inputs serialize in schema order: current date, salt,
	// nullifier, outcome.
	s.Require().Len(issued.Bundle.PublicInputs, 6)
	s.Equal("2026", issued.Bundle.PublicInputs[0])
	s.Equal("2", issued.Bundle.PublicInputs[1])
	s.Equal("20", issued.Bundle.PublicInputs[2])
	s.Equal("987654321", issued.Bundle.PublicInputs[3])
	s.Equal("1", issued.Bundle.PublicInputs[5])

	expected := zk.NullifierFor(big.NewInt(123_456_789), domain.ClaimOver18, big.NewInt(987_654_321))
	s.Equal(zk.NullifierKey(expected), issued.Nullifier)
	s.Equal(zk.FormatFieldElement(expected), issued.Bundle.PublicInputs[4])
}

func (s *ServiceSuite) TestRequestProof_MinorSealsFalseOutcome() {
	req := s.newRequest(domain.ClaimOver18)
	req.Attributes.DateOfBirth = "2010-01-01"

	s.mockProver.EXPECT().
		Prove(gomock.Any(), domain.ClaimOver18, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.ClaimID, _, public claims.Inputs) ([]byte, error) {
			s.Zero(public[claims.FieldOver18].Cmp(big.NewInt(0)))
			return []byte("proof"), nil
		})

	issued, err := s.service.RequestProof(context.Background(), req)
	s.Require().NoError(err)
	s.False(issued.Outcomes[claims.FieldOver18], "a failed claim is an outcome, not an error")
	s.Equal("0", issued.Bundle.PublicInputs[5])
}

func (s *ServiceSuite) TestRequestProof_NameMatchNormalizes() {
	req := s.newRequest(domain.ClaimNameMatch)

	s.mockProver.EXPECT().
		Prove(gomock.Any(), domain.ClaimNameMatch, gomock.Any(), gomock.Any()).
		Return([]byte("proof"), nil)

	issued, err := s.service.RequestProof(context.Background(), req)
	s.Require().NoError(err)

	// "John Smith" and "john   smith" normalize identically, so the digests
	// agree and the outcome is true.
	s.True(issued.Outcomes[claims.FieldNameMatch])
	s.Require().Len(issued.Bundle.PublicInputs, 3)
	s.Equal("1", issued.Bundle.PublicInputs[2])
}

func (s *ServiceSuite) TestRequestProof_CombinedClaimKeepsOutcomesIndependent() {
	req := s.newRequest(domain.ClaimIdentityAttestation)
	req.Attributes.DateOfBirth = "2010-01-01"

	s.mockProver.EXPECT().
		Prove(gomock.Any(), domain.ClaimIdentityAttestation, gomock.Any(), gomock.Any()).
		Return([]byte("proof"), nil)

	issued, err := s.service.RequestProof(context.Background(), req)
	s.Require().NoError(err)

	s.False(issued.Outcomes[claims.FieldOver18])
	s.True(issued.Outcomes[claims.FieldNameMatch])

	// Schema order ends with the two outcome wires.
	s.Require().Len(issued.Bundle.PublicInputs, 7)
	s.Equal("0", issued.Bundle.PublicInputs[5])
	s.Equal("1", issued.Bundle.PublicInputs[6])
}

func (s *ServiceSuite) TestRequestProof_RequirementHashScopesContext() {
	req := s.newRequest(domain.ClaimOver18)

	s.mockProver.EXPECT().
		Prove(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte("proof"), nil).
		Times(2)

	first, err := s.service.RequestProof(context.Background(), req)
	s.Require().NoError(err)

	req.Context.PolicyTag = "kyc-strict"
	second, err := s.service.RequestProof(context.Background(), req)
	s.Require().NoError(err)

	s.NotEqual(first.Bundle.RequirementHash, second.Bundle.RequirementHash)
}

func (s *ServiceSuite) TestRequestProof_InputValidation() {
	s.Run("unknown claim", func() {
		req := s.newRequest(domain.ClaimID("over_21"))
		_, err := s.service.RequestProof(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnknownClaim))
	})

	s.Run("malformed date of birth", func() {
		req := s.newRequest(domain.ClaimOver18)
		req.Attributes.DateOfBirth = "01/01/1990"
		_, err := s.service.RequestProof(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInputShape))
	})

	s.Run("missing identity secret", func() {
		req := s.newRequest(domain.ClaimOver18)
		req.Attributes.IdentitySecret = nil
		_, err := s.service.RequestProof(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInputShape))
	})

	s.Run("missing salt", func() {
		req := s.newRequest(domain.ClaimOver18)
		req.Context.Salt = nil
		_, err := s.service.RequestProof(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInputShape))
	})

	s.Run("invalid current date", func() {
		req := s.newRequest(domain.ClaimOver18)
		req.Context.CurrentDate = claims.Date{Year: 2026, Month: 13, Day: 1}
		_, err := s.service.RequestProof(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInputShape))
	})
}

func (s *ServiceSuite) TestRequestProof_BackendErrorsPassThrough() {
	s.Run("prover unavailable", func() {
		req := s.newRequest(domain.ClaimOver18)
		s.mockProver.EXPECT().
			Prove(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeProverUnavailable, "backend down"))

		_, err := s.service.RequestProof(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProverUnavailable))
	})

	s.Run("proof generation failed", func() {
		req := s.newRequest(domain.ClaimOver18)
		s.mockProver.EXPECT().
			Prove(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeProofGenerationFailed, "unsatisfiable witness"))

		_, err := s.service.RequestProof(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProofGenerationFailed))
	})
}
