package blog

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/pressbird/go-blog/middleware/jwtware"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Text codes surfaced to API clients alongside the HTTP status.
const (
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeSessionNotFound   = "SESSION_NOT_FOUND"
	TextCodeDuplicateIdentity = "DUPLICATE_IDENTITY"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound)

// ErrInvalidCredentials is returned when sign-in references an unknown
// username. The message matches ErrMismatchedHashAndPassword so the API
// never reveals which half of the credential pair was wrong.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is returned when the password does not match
// the stored hash, or the stored digest is malformed.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a session or claims token is past its expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail signature or structural checks
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is the error when the request carries no session cookie
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode JWT claims from the session cookie
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateIdentity is returned when the storage uniqueness constraint on
// username or email rejects an insert.
var ErrDuplicateIdentity = errors.New("username or email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateIdentity)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation)

// walkCause visits err and every cause reachable through the rich error
// Source chain or the stdlib Unwrap chain, stopping early once visit
// returns true.
func walkCause(err error, visit func(error) bool) bool {
	for current := err; current != nil; {
		if visit(current) {
			return true
		}

		var richErr *errors.Error
		if errors.As(current, &richErr) && richErr.Source != nil && richErr.Source != current {
			current = richErr.Source
			continue
		}

		current = stderrors.Unwrap(current)
	}
	return false
}

func hasTextCode(err error, code string) bool {
	return walkCause(err, func(cause error) bool {
		var richErr *errors.Error
		return stderrors.As(cause, &richErr) && richErr.TextCode == code
	})
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsMalformedError will check for structurally invalid or unverifiable tokens,
// including the middleware's missing-token sentinel.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return true
	}
	return hasTextCode(err, TextCodeTokenMalformed)
}

// pgUniqueViolation is the SQLSTATE class for unique-constraint rejections.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a uniqueness-constraint rejection
// from either supported driver. The constraint, not application logic, is the
// source of truth for duplicate detection, and the driver error may sit
// behind wrapping layers whose messages hide it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	return walkCause(err, func(cause error) bool {
		var pgErr pgdriver.Error
		if stderrors.As(cause, &pgErr) {
			return pgErr.Field('C') == pgUniqueViolation
		}

		msg := cause.Error()
		return strings.Contains(msg, "duplicate key value violates unique constraint") ||
			strings.Contains(msg, "SQLSTATE "+pgUniqueViolation) ||
			strings.Contains(msg, "UNIQUE constraint failed")
	})
}

// StatusFromError maps an error to the HTTP status the API surfaces.
func StatusFromError(err error) int {
	if repository.IsRecordNotFound(err) {
		return http.StatusNotFound
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return http.StatusInternalServerError
	}

	switch richErr.Category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
