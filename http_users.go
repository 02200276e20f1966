package blog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// RegisterUserRoutes mounts the user management endpoints. Mutations require
// a session; changing or deleting another user additionally requires admin.
func RegisterUserRoutes(app fiber.Router, controller *UsersController, protected fiber.Handler) {
	app.Get("/user", controller.List).Name("user.list")
	app.Get("/user/:username", controller.Show).Name("user.show")

	app.Post("/user", protected, controller.Create).Name("user.create")
	app.Patch("/user", protected, controller.Patch).Name("user.patch")
	app.Delete("/user/:username", protected, controller.Delete).Name("user.delete")
}

type UsersController struct {
	Logger     Logger
	Repo       RepositoryManager
	ContextKey string
}

func NewUsersController(repo RepositoryManager, contextKey string, logger Logger) *UsersController {
	if logger == nil {
		logger = defLogger{}
	}
	return &UsersController{
		Logger:     logger,
		Repo:       repo,
		ContextKey: contextKey,
	}
}

// actorFromSession resolves the acting user behind the session. The session
// token carries only the user id, so username and role come from storage,
// never from the token.
func (a *UsersController) actorFromSession(ctx *fiber.Ctx) (*User, error) {
	claims, err := GetSession(ctx, a.ContextKey)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryAuth, "session has no usable user id").
			WithCode(errors.CodeUnauthorized)
	}

	actor, err := a.Repo.Users().GetByUserID(ctx.Context(), userID)
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.CategoryAuth, "session references unknown identity").
				WithCode(errors.CodeUnauthorized)
		}
		return nil, err
	}

	return actor, nil
}

func (a *UsersController) List(ctx *fiber.Ctx) error {
	users, err := a.Repo.Users().ListAll(ctx.Context())
	if err != nil {
		a.Logger.Error("user list", "error", err)
		return RespondError(ctx, a.Logger, err)
	}
	return ctx.JSON(users)
}

func (a *UsersController) Show(ctx *fiber.Ctx) error {
	user, err := a.Repo.Users().GetByUsername(ctx.Context(), ctx.Params("username"))
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}
	return ctx.JSON(user)
}

// CreateUserRequest payload
type CreateUserRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 60)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Role, validation.In(RoleUser, RoleAdmin)),
	)
}

// Create registers a user through the same path as sign-up, so the password
// is hashed before it touches storage. Assigning admin requires an admin
// actor.
func (a *UsersController) Create(ctx *fiber.Ctx) error {
	actor, err := a.actorFromSession(ctx)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	payload := new(CreateUserRequest)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("user create parse payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("user create validate payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryValidation, err.Error()))
	}

	if payload.Role == RoleAdmin && !RoleIsAtLeast(actor.Role, RoleAdmin) {
		return RespondError(ctx, a.Logger, errors.New("only admins can assign the admin role", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden))
	}

	req := RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("user create register", "error", err)
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User has been created",
	})
}

// PatchUserRequest payload
type PatchUserRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r PatchUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// Patch re-hashes and replaces the user's password. Users can change their
// own, admins can change anyone's.
func (a *UsersController) Patch(ctx *fiber.Ctx) error {
	actor, err := a.actorFromSession(ctx)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	payload := new(PatchUserRequest)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("user patch parse payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("user patch validate payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryValidation, err.Error()))
	}

	if actor.Username != payload.Username && !RoleIsAtLeast(actor.Role, RoleAdmin) {
		return RespondError(ctx, a.Logger, errors.New("cannot change another user's password", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden))
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	if err := a.Repo.Users().UpdatePassword(ctx.Context(), payload.Username, hash); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "User has been updated",
	})
}

// Delete removes a user. Users can delete themselves, admins anyone.
func (a *UsersController) Delete(ctx *fiber.Ctx) error {
	actor, err := a.actorFromSession(ctx)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	username := ctx.Params("username")
	if actor.Username != username && !RoleIsAtLeast(actor.Role, RoleAdmin) {
		return RespondError(ctx, a.Logger, errors.New("cannot delete another user", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden))
	}

	if err := a.Repo.Users().DeleteByUsername(ctx.Context(), username); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "User has been deleted",
	})
}
