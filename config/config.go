package config

import (
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
)

// BaseConfig is the application configuration tree. It is loaded by the
// config container from defaults, config files and environment overrides.
type BaseConfig struct {
	App         App         `json:"app" koanf:"app"`
	Server      Server      `json:"server" koanf:"server"`
	Auth        Auth        `json:"auth" koanf:"auth"`
	Persistence Persistence `json:"persistence" koanf:"persistence"`
}

// Validate fails fast on configuration the process cannot run without. An
// empty signing key would silently issue unverifiable tokens, so it is fatal
// at boot.
func (a *BaseConfig) Validate() error {
	if a.Auth.SigningKey == "" {
		return errors.New("auth.signing_key must be set", errors.CategoryValidation)
	}

	if a.Persistence.DSN == "" {
		return errors.New("persistence.dsn must be set", errors.CategoryValidation)
	}

	return nil
}

func (a *BaseConfig) GetApp() App                 { return a.App }
func (a *BaseConfig) GetServer() Server           { return a.Server }
func (a *BaseConfig) GetAuth() Auth               { return a.Auth }
func (a *BaseConfig) GetPersistence() Persistence { return a.Persistence }

type App struct {
	Name  string `json:"name" koanf:"name"`
	Env   string `json:"env" koanf:"env"`
	Debug bool   `json:"debug" koanf:"debug"`
}

func (a App) GetName() string { return a.Name }
func (a App) GetEnv() string  { return a.Env }
func (a App) GetDebug() bool  { return a.Debug }

type Server struct {
	Addr string `json:"addr" koanf:"addr"`
}

func (s Server) GetAddr() string {
	if s.Addr == "" {
		return ":9301"
	}
	return s.Addr
}

// Auth configures token issuance and the session cookie.
type Auth struct {
	SigningKey             string   `json:"signing_key" koanf:"signing_key"`
	SigningMethod          string   `json:"signing_method" koanf:"signing_method"`
	SessionTokenExpression string   `json:"session_token_duration" koanf:"session_token_duration"`
	ClaimsTokenExpression  string   `json:"claims_token_duration" koanf:"claims_token_duration"`
	Issuer                 string   `json:"issuer" koanf:"issuer"`
	Audience               []string `json:"audience" koanf:"audience"`
	ContextKey             string   `json:"context_key" koanf:"context_key"`
	SessionCookieName      string   `json:"session_cookie_name" koanf:"session_cookie_name"`
	TokenLookupExpression  string   `json:"token_lookup" koanf:"token_lookup"`
	AuthScheme             string   `json:"auth_scheme" koanf:"auth_scheme"`
}

func (c Auth) GetSigningKey() string { return c.SigningKey }

func (c Auth) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c Auth) GetSessionTokenDuration() time.Duration {
	return parseDurationExpression(c.SessionTokenExpression, 12*time.Hour)
}

func (c Auth) GetClaimsTokenDuration() time.Duration {
	return parseDurationExpression(c.ClaimsTokenExpression, 15*time.Minute)
}

func (c Auth) GetIssuer() string {
	if c.Issuer == "" {
		return "pressbird"
	}
	return c.Issuer
}

func (c Auth) GetAudience() []string {
	if len(c.Audience) == 0 {
		return []string{"pressbird"}
	}
	return c.Audience
}

func (c Auth) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c Auth) GetSessionCookieName() string {
	if c.SessionCookieName == "" {
		return "session"
	}
	return c.SessionCookieName
}

func (c Auth) GetTokenLookup() string {
	if c.TokenLookupExpression == "" {
		return "cookie:" + c.GetSessionCookieName() + ",header:Authorization"
	}
	return c.TokenLookupExpression
}

func (c Auth) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

// Persistence configures the database connection and migration runner.
type Persistence struct {
	Driver                string `json:"driver" koanf:"driver"`
	DSN                   string `json:"dsn" koanf:"dsn"`
	Debug                 bool   `json:"debug" koanf:"debug"`
	OtelIdentifier        string `json:"otel_identifier" koanf:"otel_identifier"`
	PingTimeoutExpression string `json:"ping_timeout" koanf:"ping_timeout"`
}

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string { return p.DSN }

// GetServer returns the connection string the driver dials.
func (p Persistence) GetServer() string { return p.GetDSN() }

func (p Persistence) GetDebug() bool { return p.Debug }

func (p Persistence) GetOtelIdentifier() string {
	if p.OtelIdentifier == "" {
		return "blog"
	}
	return p.OtelIdentifier
}

func (p Persistence) GetPingTimeout() time.Duration {
	return parseDurationExpression(p.PingTimeoutExpression, 5*time.Second)
}

func parseDurationExpression(expr string, def time.Duration) time.Duration {
	if expr == "" {
		return def
	}
	dur, err := time.ParseDuration(expr)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", expr),
		)
	}
	return dur
}
