package blog

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// RegisterAuthRoutes mounts the auth endpoints on the app.
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.SignUp, controller.SignUp).Name("sign-up.post")
	app.Post(controller.Routes.SignIn, controller.SignIn).Name("sign-in.post")
	app.Post(controller.Routes.SignOut, controller.SignOut).Name("sign-out.post")
	app.Get(controller.Routes.AuthStatus, controller.AuthStatus).Name("auth-status.get")
}

type AuthControllerRoutes struct {
	SignUp     string
	SignIn     string
	SignOut    string
	AuthStatus string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       *RouteAuthenticator
	ErrorHandler fiber.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			SignUp:     "/sign-up",
			SignIn:     "/sign-in",
			SignOut:    "/sign-out",
			AuthStatus: "/auth-status",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = func(ctx *fiber.Ctx, err error) error {
			return RespondError(ctx, c.Logger, err)
		}
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	return c
}

// SignUpRequest payload. Role is optional and defaults to "user".
type SignUpRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 60)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Role, validation.In(RoleUser, RoleAdmin)),
	)
}

func (a *AuthController) SignUp(ctx *fiber.Ctx) error {
	payload := new(SignUpRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("sign up parse payload", "error", err)
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("sign up validate payload", "error", err)
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, err.Error()))
	}

	role := payload.Role
	if role == "" {
		role = RoleUser
	}

	req := RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     role,
		// sign-up ids derive from the email so repeated registrations of
		// the same address land on the same id across environments
		UseHashid: true,
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("sign up register user", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User has been created",
	})
}

// SignInRequest payload
type SignInRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r SignInRequest) GetIdentifier() string {
	return r.Username
}

// GetPassword will return the password
func (r SignInRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) SignIn(ctx *fiber.Ctx) error {
	payload := new(SignInRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("sign in parse payload", "error", err)
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("sign in validate payload", "error", err)
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, err.Error()))
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGN IN ======")
		fmt.Println(print.MaybePrettyJSON(fiber.Map{"username": payload.Username}))
		fmt.Println("===========================")
	}

	result, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"token": result.ClaimsToken,
		"user_data": fiber.Map{
			"username": result.Identity.Username(),
			"role":     result.Identity.Role(),
		},
	})
}

func (a *AuthController) SignOut(ctx *fiber.Ctx) error {
	a.Auther.Logout(ctx)
	return ctx.JSON(fiber.Map{
		"message": "Signed out",
	})
}

// AuthStatus resolves the session cookie into the current identity. A missing
// cookie is a normal anonymous response, not an error.
func (a *AuthController) AuthStatus(ctx *fiber.Ctx) error {
	status, err := a.Auther.Status(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if status.Anonymous {
		return ctx.JSON(fiber.Map{
			"message": "No active session",
			"user_data": fiber.Map{
				"username": "",
				"role":     RoleGuest,
			},
		})
	}

	return ctx.JSON(fiber.Map{
		"message": "Session is active",
		"token":   status.ClaimsToken,
		"user_data": fiber.Map{
			"username": status.Username,
			"role":     status.Role,
		},
	})
}
