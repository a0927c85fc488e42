package party

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	jwttoken "attesto/internal/jwt_token"
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
	"attesto/pkg/platform/sentinel"
	"attesto/pkg/requestcontext"

	"attesto/internal/party/secrets"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = time.Hour

// Token is an issued bearer credential.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
}

// Service exchanges provisioned party credentials for access tokens.
type Service struct {
	store  Store
	tokens *jwttoken.Service
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTokenTTL overrides the issued token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewService(store Store, tokens *jwttoken.Service, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tokens: tokens,
		ttl:    DefaultTokenTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token exchanges party credentials for a bearer token. Unknown parties,
// wrong secrets and inactive registrations all fail identically so the
// endpoint cannot be used to enumerate registered parties.
func (s *Service) Token(ctx context.Context, partyID, secret string) (*Token, error) {
	id, err := domain.ParsePartyID(strings.TrimSpace(partyID))
	if err != nil {
		return nil, errInvalidCredentials()
	}
	if secret == "" {
		return nil, errInvalidCredentials()
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.warnRejected(ctx, id, "unknown party")
			return nil, errInvalidCredentials()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "party lookup failed")
	}
	if !p.IsActive() {
		s.warnRejected(ctx, id, "party inactive")
		return nil, errInvalidCredentials()
	}
	if err := secrets.Verify(secret, p.SecretHash); err != nil {
		s.warnRejected(ctx, id, "secret mismatch")
		return nil, errInvalidCredentials()
	}

	signed, err := s.tokens.IssuePartyToken(p.ID, requestcontext.Now(ctx), s.ttl)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not sign access token")
	}

	s.logger.InfoContext(ctx, "access token issued",
		"party_id", p.ID,
		"expires_in_s", int(s.ttl.Seconds()),
	)
	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
	}, nil
}

func (s *Service) warnRejected(ctx context.Context, id domain.PartyID, cause string) {
	s.logger.WarnContext(ctx, "token request rejected",
		"party_id", id,
		"cause", cause,
		"client_ip", requestcontext.ClientIP(ctx),
		"user_agent", requestcontext.UserAgent(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func errInvalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid party credentials")
}
