package blog

import (
	"context"

	"github.com/goliatone/go-errors"
)

// LoginResult is the outcome of a successful sign-in: both tokens plus the
// public identity.
type LoginResult struct {
	SessionToken string
	ClaimsToken  string
	Identity     Identity
}

// StatusResult is the outcome of an auth-status resolution. Anonymous means
// no session token was presented; Username/Role then describe the guest
// identity and ClaimsToken is empty.
type StatusResult struct {
	Anonymous   bool
	Username    string
	Role        UserRole
	ClaimsToken string
}

// Auther resolves credentials and session tokens against an identity
// provider. It holds no mutable session state.
type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new authenticator
func NewAuthenticator(provider IdentityProvider, tokens TokenService, logger Logger) *Auther {
	if logger == nil {
		logger = defLogger{}
	}
	return &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   logger,
	}
}

var _ Authenticator = (*Auther)(nil)

// Login verifies the credentials and issues both tokens. An unknown username
// fails with invalid credentials before any password comparison; it never
// dereferences a missing row.
func (s *Auther) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if identity == nil {
		return nil, ErrInvalidCredentials
	}

	sessionToken, err := s.tokens.IssueSession(identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue session token")
	}

	claimsToken, err := s.tokens.IssueClaims(identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue claims token")
	}

	return &LoginResult{
		SessionToken: sessionToken,
		ClaimsToken:  claimsToken,
		Identity:     identity,
	}, nil
}

// Status resolves a raw session token into the current identity.
//
// No token at all is the defined anonymous outcome, not a failure: the
// caller gets a guest identity and no claims token. A present token must
// verify; identity is then re-read from storage so role or username edits
// since sign-in are reflected, and a fresh claims token is minted.
func (s *Auther) Status(ctx context.Context, rawSessionToken string) (*StatusResult, error) {
	if rawSessionToken == "" {
		return &StatusResult{
			Anonymous: true,
			Role:      RoleGuest,
		}, nil
	}

	claims, err := s.tokens.Validate(rawSessionToken)
	if err != nil {
		return nil, err
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.UserID())
	if err != nil {
		// The signature was valid but the user is gone; the session is no
		// longer authenticatable.
		if errors.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.CategoryAuth, "session references unknown identity").
				WithCode(errors.CodeUnauthorized)
		}
		return nil, err
	}

	claimsToken, err := s.tokens.IssueClaims(identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue claims token")
	}

	return &StatusResult{
		Username:    identity.Username(),
		Role:        UserRole(identity.Role()),
		ClaimsToken: claimsToken,
	}, nil
}

// SessionFromToken validates a raw session token and returns its decoded view.
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, err
	}
	return sessionFromAuthClaims(claims)
}

// TokenService exposes the underlying token service, mainly for middleware wiring.
func (s *Auther) TokenService() TokenService {
	return s.tokens
}
