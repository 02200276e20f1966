package blog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RegisterCommentRoutes mounts the comment endpoints. Writes go behind the
// session middleware.
func RegisterCommentRoutes(app fiber.Router, controller *CommentsController, protected fiber.Handler) {
	app.Get("/comment/get", controller.List).Name("comment.list")
	app.Get("/comment/get/:postId", controller.ListByPost).Name("comment.list-by-post")

	app.Post("/comment", protected, controller.Create).Name("comment.create")
	app.Patch("/comment/:commentId", protected, controller.Patch).Name("comment.patch")
	app.Delete("/comment/:commentId", protected, controller.Delete).Name("comment.delete")
}

type CommentsController struct {
	Logger     Logger
	Repo       RepositoryManager
	ContextKey string
}

func NewCommentsController(repo RepositoryManager, contextKey string, logger Logger) *CommentsController {
	if logger == nil {
		logger = defLogger{}
	}
	return &CommentsController{
		Logger:     logger,
		Repo:       repo,
		ContextKey: contextKey,
	}
}

func (a *CommentsController) List(ctx *fiber.Ctx) error {
	comments, err := a.Repo.Comments().ListAll(ctx.Context())
	if err != nil {
		a.Logger.Error("comment list", "error", err)
		return RespondError(ctx, a.Logger, err)
	}
	return ctx.JSON(comments)
}

func (a *CommentsController) ListByPost(ctx *fiber.Ctx) error {
	postID, err := uuid.Parse(ctx.Params("postId"))
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "invalid post id"))
	}

	comments, err := a.Repo.Comments().ListByPost(ctx.Context(), postID)
	if err != nil {
		a.Logger.Error("comment list by post", "error", err)
		return RespondError(ctx, a.Logger, err)
	}
	return ctx.JSON(comments)
}

// CreateCommentRequest payload
type CreateCommentRequest struct {
	PostID  string `form:"post_id" json:"post_id"`
	Content string `form:"content" json:"content"`
}

// Validate will run validation rules
func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostID, validation.Required, validation.By(ValidateUUIDString)),
		validation.Field(&r.Content, validation.Required, validation.Length(1, 2000)),
	)
}

// Create inserts a comment by the session's user and responds with the
// refreshed comment list for the post.
func (a *CommentsController) Create(ctx *fiber.Ctx) error {
	claims, err := GetSession(ctx, a.ContextKey)
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryAuth, "session has no usable user id").
			WithCode(errors.CodeUnauthorized))
	}

	payload := new(CreateCommentRequest)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("comment create parse payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("comment create validate payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryValidation, err.Error()))
	}

	postID, err := uuid.Parse(payload.PostID)
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "invalid post id"))
	}

	comment := &Comment{
		UserID:  userID,
		PostID:  postID,
		Content: payload.Content,
	}

	if err := a.Repo.Comments().Create(ctx.Context(), comment); err != nil {
		a.Logger.Error("comment create", "error", err)
		return RespondError(ctx, a.Logger, err)
	}

	comments, err := a.Repo.Comments().ListByPost(ctx.Context(), postID)
	if err != nil {
		a.Logger.Error("comment create refresh list", "error", err)
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(comments)
}

// PatchCommentRequest payload
type PatchCommentRequest struct {
	Content string `form:"content" json:"content"`
}

// Validate will run validation rules
func (r PatchCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 2000)),
	)
}

func (a *CommentsController) Patch(ctx *fiber.Ctx) error {
	commentID, err := uuid.Parse(ctx.Params("commentId"))
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "invalid comment id"))
	}

	payload := new(PatchCommentRequest)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("comment patch parse payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("comment patch validate payload", "error", err)
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryValidation, err.Error()))
	}

	if err := a.Repo.Comments().Update(ctx.Context(), commentID, payload.Content); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Comment has been updated",
	})
}

func (a *CommentsController) Delete(ctx *fiber.Ctx) error {
	commentID, err := uuid.Parse(ctx.Params("commentId"))
	if err != nil {
		return RespondError(ctx, a.Logger, errors.Wrap(err, errors.CategoryBadInput, "invalid comment id"))
	}

	if err := a.Repo.Comments().Delete(ctx.Context(), commentID); err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Comment has been deleted",
	})
}

// ValidateUUIDString checks the value parses as a UUID.
func ValidateUUIDString(value any) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID", errors.CategoryValidation)
	}
	return nil
}
