package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	blog "github.com/pressbird/go-blog"
	"github.com/pressbird/go-blog/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

// the persistence client consumes the config section directly
var _ persistence.Config = config.Persistence{}

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	auth   blog.Authenticator
	auther *blog.RouteAuthenticator
	repo   blog.RepositoryManager
	fiber  *fiber.App
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("blog"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	if err := cfg.Raw().Validate(); err != nil {
		lgr.GetLogger("boot").Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Raw().GetApp().GetDebug() {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
		fmt.Println("============")
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	go func() {
		addr := app.Config().GetServer().GetAddr()
		app.GetLogger("server").Info("listening", "addr", addr)
		if err := app.fiber.Listen(addr); err != nil {
			app.GetLogger("server").Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	if err := app.fiber.Shutdown(); err != nil {
		app.GetLogger("server").Error("shutdown", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.Config().GetPersistence()

	var db *sql.DB
	var dialect schema.Dialect

	switch pcfg.GetDriver() {
	case "postgres":
		db = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pcfg.GetDSN())))
		dialect = pgdialect.New()
	default:
		var err error
		db, err = sql.Open(sqliteshim.ShimName, pcfg.GetDSN())
		if err != nil {
			log.Fatal(err)
			return err
		}
		dialect = sqlitedialect.New()
	}

	persistence.RegisterModel((*blog.User)(nil))
	persistence.RegisterModel((*blog.Post)(nil))
	persistence.RegisterModel((*blog.Comment)(nil))

	client, err := persistence.New(pcfg, db, dialect)
	if err != nil {
		log.Fatal(err)
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(blog.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = blog.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithHTTPServer(ctx context.Context, app *App) error {
	acfg := app.Config().GetAuth()

	userProvider := blog.NewUserProvider(app.repo.Users())
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	tokens := blog.NewTokenService(acfg, app.GetLogger("auth:tokens"))

	authenticator := blog.NewAuthenticator(userProvider, tokens, app.GetLogger("auth"))
	app.auth = authenticator

	auther, err := blog.NewHTTPAuthenticator(authenticator, acfg)
	if err != nil {
		return err
	}
	auther.Logger = app.GetLogger("auth:http")
	app.auther = auther

	srv := fiber.New(fiber.Config{
		AppName:       app.Config().GetApp().GetName(),
		StrictRouting: false,
	})

	blog.RegisterAuthRoutes(srv,
		blog.WithControllerRepo(app.repo),
		blog.WithControllerAuther(auther),
		blog.WithControllerLogger(app.GetLogger("auth:ctrl")),
		blog.WithControllerDebug(app.Config().GetApp().GetDebug()),
	)

	protected := auther.ProtectedRoute(auther.MakeClientRouteAuthErrorHandler(false))
	contextKey := acfg.GetContextKey()

	blog.RegisterPostRoutes(srv,
		blog.NewPostsController(app.repo, contextKey, app.GetLogger("posts")),
		protected,
	)
	blog.RegisterCommentRoutes(srv,
		blog.NewCommentsController(app.repo, contextKey, app.GetLogger("comments")),
		protected,
	)
	blog.RegisterUserRoutes(srv,
		blog.NewUsersController(app.repo, contextKey, app.GetLogger("users")),
		protected,
	)

	app.fiber = srv

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
