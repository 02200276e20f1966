package blog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/pressbird/go-blog/middleware/jwtware"
)

// LoginPayload is the credential carrier consumed by the HTTP authenticator.
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

// GetSession returns the validated claims the JWT middleware stored in the
// request locals.
func GetSession(c *fiber.Ctx, key string) (AuthClaims, error) {
	cookie := c.Locals(key)
	if cookie == nil {
		return nil, ErrUnableToFindSession
	}

	claims, ok := cookie.(AuthClaims)
	if claims == nil || !ok {
		return nil, ErrUnableToDecodeSession
	}

	return claims, nil
}

// RouteAuthenticator binds the authenticator to fiber routes. It owns the
// session cookie lifecycle and the JWT middleware wiring.
type RouteAuthenticator struct {
	auth           Authenticator
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
	ErrorHandler   fiber.ErrorHandler
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	cookieDuration := 12 * time.Hour
	if cfg.GetSessionTokenDuration() > 0 {
		cookieDuration = cfg.GetSessionTokenDuration()
	}

	a := &RouteAuthenticator{
		cfg:            cfg,
		auth:           auther,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// ProtectedRoute rejects requests that do not carry a verifiable session
// token. Validated claims end up in the locals under the context key.
func (a *RouteAuthenticator) ProtectedRoute(errorHandler fiber.ErrorHandler) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		AuthScheme:     a.cfg.GetAuthScheme(),
		ContextKey:     a.cfg.GetContextKey(),
		TokenLookup:    a.cfg.GetTokenLookup(),
		TokenValidator: tokenValidatorAdapter{tokens: a.auth.TokenService()},
	})
}

// tokenValidatorAdapter bridges the middleware's mirrored validator interface
// to the token service.
type tokenValidatorAdapter struct {
	tokens TokenValidator
}

func (t tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := t.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Login verifies the credentials and, on success, sets the session cookie.
// The returned result carries the short lived claims token for the response
// body.
func (a *RouteAuthenticator) Login(c *fiber.Ctx, payload LoginPayload) (*LoginResult, error) {
	result, err := a.auth.Login(c.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error", "error", err)
		return nil, err
	}

	a.setCookieToken(c, result.SessionToken, a.cookieDuration)
	return result, nil
}

// Logout expires the session cookie. The tokens themselves stay valid until
// their exp claim, there is no server side revocation list.
func (a *RouteAuthenticator) Logout(c *fiber.Ctx) {
	a.cookieDel(c, a.cfg.GetSessionCookieName())
}

// Status reports the session state for the request's session cookie.
func (a *RouteAuthenticator) Status(c *fiber.Ctx) (*StatusResult, error) {
	return a.auth.Status(c.Context(), c.Cookies(a.cfg.GetSessionCookieName()))
}

// MakeClientRouteAuthErrorHandler normalizes middleware failures into typed
// auth errors. With optional set, the request proceeds anonymously instead.
func (a *RouteAuthenticator) MakeClientRouteAuthErrorHandler(optional bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding", "error", richErr.Message)
			return c.Next()
		}

		return a.ErrorHandler(c, richErr)
	}
}

func (a *RouteAuthenticator) setCookieToken(c *fiber.Ctx, val string, duration time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cfg.GetSessionCookieName(),
		Value:    val,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c *fiber.Ctx, err error) error {
	return RespondError(c, a.Logger, err)
}

// RespondError maps a typed error to its HTTP status and writes a JSON body.
// Credentials never echo back, only the category message and text code leave
// the process.
func RespondError(c *fiber.Ctx, logger Logger, err error) error {
	var richErr *errors.Error
	if repository.IsRecordNotFound(err) {
		// the repository's not-found carries its own category, normalize it
		// so the status mapping lands on 404
		richErr = errors.Wrap(err, errors.CategoryNotFound, "Record not found")
	} else if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	if logger != nil {
		logger.Info(
			"request error",
			"error", richErr.Message,
			"category", richErr.Category,
			"text_code", richErr.TextCode,
			"path", c.OriginalURL(),
		)
	}

	body := fiber.Map{
		"error": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}

	return c.Status(StatusFromError(richErr)).JSON(body)
}
