package blog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RegisterPostRoutes mounts the post endpoints. Writes go behind the session
// middleware, reads are public.
func RegisterPostRoutes(app fiber.Router, controller *PostsController, protected fiber.Handler) {
	app.Get("/post/get", controller.List).Name("post.list")
	app.Get("/post/get/user/:userId", controller.ListByUser).Name("post.list-by-user")
	app.Get("/post/get/id/:postId", controller.Show).Name("post.show")

	app.Post("/post", protected, controller.Create).Name("post.create")
	app.Patch("/post/patch/:postId", protected, controller.Patch).Name("post.patch")
	app.Delete("/post/delete/:postId", protected, controller.Delete).Name("post.delete")
}

type PostsController struct {
	Logger     Logger
	Repo       RepositoryManager
	ContextKey string
}

func NewPostsController(repo RepositoryManager, contextKey string, logger Logger) *PostsController {
	if logger == nil {
		logger = defLogger{}
	}
	return &PostsController{
		Logger:     logger,
		Repo:       repo,
		ContextKey: contextKey,
	}
}

func (a *PostsController) List(ctx *fiber.Ctx) error {
	posts, err := a.Repo.Posts().ListWithAuthors(ctx.Context())
	if err != nil {
		a.Logger.Error("post list", "error", err)
		return RespondError(ctx, a.Logger, err)
	}
	return ctx.JSON(posts)
}

func (a *PostsController) ListByUser(ctx *fiber.Ctx) error {
	userID, err := uuid.Parse(ctx.Params("userId"))
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "invalid user id"))
	}

	posts, err := a.Repo.Posts().ListByAuthor(ctx.Context(), userID)
	if err != nil {
		a.Logger.Error("post list by user", "error", err)
		return RespondError(ctx, a.Logger, err)
	}
	return ctx.JSON(posts)
}

func (a *PostsController) Show(ctx *fiber.Ctx) error {
	postID, err := uuid.Parse(ctx.Params("postId"))
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "invalid post id"))
	}

	post, err := a.Repo.Posts().GetByID(ctx.Context(), postID)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}
	return ctx.JSON(post)
}

// CreatePostRequest payload
type CreatePostRequest struct {
	Title    string `form:"title" json:"title"`
	Category string `form:"category" json:"category"`
	Excerpt  string `form:"excerpt" json:"excerpt"`
	Content  string `form:"content" json:"content"`
}

// Validate will run validation rules
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(
			&r.Category,
			validation.Required,
			validation.In(
				CategoryNews,
				CategoryTechnology,
				CategorySecurity,
				CategoryBusiness,
			),
		),
		validation.Field(&r.Excerpt, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// Create inserts a post authored by the session's user. The author comes from
// the verified claims, never from the request body.
func (a *PostsController) Create(ctx *fiber.Ctx) error {
	claims, err := GetSession(ctx, a.ContextKey)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryAuth, "session has no usable user id").
			WithCode(errors.CodeUnauthorized))
	}

	payload := new(CreatePostRequest)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("post create parse payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("post create validate payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryValidation, err.Error()))
	}

	post := &Post{
		UserID:   userID,
		Title:    payload.Title,
		Category: payload.Category,
		Excerpt:  payload.Excerpt,
		Content:  payload.Content,
	}

	if err := a.Repo.Posts().Create(ctx.Context(), post); err != nil {
		a.Logger.Error("post create", "error", err)
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(post)
}

// PatchPostRequest payload
type PatchPostRequest struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

// Validate will run validation rules
func (r PatchPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Content, validation.Required),
	)
}

func (a *PostsController) Patch(ctx *fiber.Ctx) error {
	postID, err := uuid.Parse(ctx.Params("postId"))
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "invalid post id"))
	}

	payload := new(PatchPostRequest)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("post patch parse payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("post patch validate payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryValidation, err.Error()))
	}

	if err := a.Repo.Posts().Update(ctx.Context(), postID, payload.Title, payload.Content); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Post has been updated",
	})
}

func (a *PostsController) Delete(ctx *fiber.Ctx) error {
	postID, err := uuid.Parse(ctx.Params("postId"))
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "invalid post id"))
	}

	if err := a.Repo.Posts().Delete(ctx.Context(), postID); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Post has been deleted",
	})
}
