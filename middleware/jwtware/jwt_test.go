package jwtware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pressbird/go-blog/middleware/jwtware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClaims struct {
	subject  string
	userID   string
	username string
	role     string
}

func (c stubClaims) Subject() string  { return c.subject }
func (c stubClaims) UserID() string   { return c.userID }
func (c stubClaims) Username() string { return c.username }
func (c stubClaims) Role() string     { return c.role }
func (c stubClaims) HasRole(role string) bool {
	return c.role == role
}
func (c stubClaims) IsAtLeast(minRole string) bool {
	order := map[string]int{"guest": 0, "user": 1, "admin": 2}
	mine, ok := order[c.role]
	if !ok {
		return false
	}
	min, ok := order[minRole]
	if !ok {
		return false
	}
	return mine >= min
}

type stubValidator struct {
	accept string
	claims jwtware.AuthClaims
}

func (v stubValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	if tokenString != v.accept {
		return nil, errors.New("token is malformed")
	}
	return v.claims, nil
}

func newTestApp(cfg jwtware.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected", jwtware.New(cfg), func(c *fiber.Ctx) error {
		claims, ok := c.Locals(cfg.ContextKey).(jwtware.AuthClaims)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).SendString("no claims in locals")
		}
		return c.JSON(fiber.Map{"user_id": claims.UserID()})
	})
	return app
}

func validatorFor(role string) stubValidator {
	return stubValidator{
		accept: "valid-token",
		claims: stubClaims{subject: "u-1", userID: "u-1", username: "alice", role: role},
	}
}

func TestMiddleware_CookieLookup(t *testing.T) {
	app := newTestApp(jwtware.Config{
		ContextKey:     "user",
		TokenLookup:    "cookie:session",
		TokenValidator: validatorFor("user"),
	})

	t.Run("missing cookie is a bad request", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "bogus"})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token reaches the handler with claims in locals", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "valid-token"})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestMiddleware_HeaderLookup(t *testing.T) {
	app := newTestApp(jwtware.Config{
		ContextKey:     "user",
		TokenLookup:    "header:Authorization",
		AuthScheme:     "Bearer",
		TokenValidator: validatorFor("user"),
	})

	t.Run("bearer token is accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("wrong scheme is rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic valid-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestMiddleware_Filter(t *testing.T) {
	app := newTestApp(jwtware.Config{
		ContextKey:  "user",
		TokenLookup: "cookie:session",
		Filter: func(c *fiber.Ctx) bool {
			return c.Query("skip") == "1"
		},
		TokenValidator: validatorFor("user"),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected?skip=1", nil))
	require.NoError(t, err)
	// filtered requests bypass validation entirely, so the handler runs
	// without claims and reports the missing locals
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestMiddleware_RoleChecks(t *testing.T) {
	t.Run("minimum role rejects a lesser role", func(t *testing.T) {
		app := newTestApp(jwtware.Config{
			ContextKey:     "user",
			TokenLookup:    "cookie:session",
			MinimumRole:    "admin",
			TokenValidator: validatorFor("user"),
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "valid-token"})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("minimum role admits an equal role", func(t *testing.T) {
		app := newTestApp(jwtware.Config{
			ContextKey:     "user",
			TokenLookup:    "cookie:session",
			MinimumRole:    "admin",
			TokenValidator: validatorFor("admin"),
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "valid-token"})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestMiddleware_ValidationListeners(t *testing.T) {
	var seen []string

	app := newTestApp(jwtware.Config{
		ContextKey:  "user",
		TokenLookup: "cookie:session",
		ValidationListeners: []jwtware.ValidationListener{
			nil, // ignored
			func(c *fiber.Ctx, claims jwtware.AuthClaims) error {
				seen = append(seen, claims.Username())
				return nil
			},
		},
		TokenValidator: validatorFor("user"),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "valid-token"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"alice"}, seen)
}

func TestGetExtractors(t *testing.T) {
	extractors := jwtware.GetExtractors("cookie:session,header:Authorization", "Bearer")
	assert.Len(t, extractors, 2)

	app := fiber.New()
	var raw string
	app.Get("/", func(c *fiber.Ctx) error {
		var err error
		raw, err = jwtware.ExtractRawTokenFromContext(c, extractors)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("cookie wins when both are present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "from-cookie"})
		req.Header.Set("Authorization", "Bearer from-header")

		resp, err := app.Test(req, int(time.Second.Milliseconds()))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "from-cookie", raw)
	})

	t.Run("falls back to the header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer from-header")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "from-header", raw)
	})
}
