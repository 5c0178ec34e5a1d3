package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/template"

	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"github.com/taskforge/taskforge"
	"github.com/taskforge/taskforge/config"
	"github.com/taskforge/taskforge/migrations"
	"github.com/taskforge/taskforge/rest"
)

//go:embed data/fixtures/*.yml
var fixturesFS embed.FS

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("taskforge"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.AppConfig{}).
		WithLogger(lgr.GetLogger("config"))

	log := lgr.GetLogger("main")

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))

	db, err := openDatabase(ctx, cfg.Raw().GetPersistence(), lgr.GetLogger("persistence"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	repo := taskforge.NewRepositoryManager(db)
	repo.MustValidate()

	authCfg := cfg.Raw().GetAuth()
	tokens := taskforge.NewTokenService(
		[]byte(authCfg.GetSigningKey()),
		authCfg.GetTokenExpiration(),
		authCfg.GetIssuer(),
		lgr.GetLogger("tokens"),
	)

	srv := rest.NewServer(authCfg, repo, tokens,
		rest.WithLogger(lgr.GetLogger("http")),
	)

	addr := cfg.Raw().GetServer().GetAddress()
	go func() {
		if err := srv.Listen(addr); err != nil {
			log.Error("server stopped", "error", err)
		}
	}()

	log.Info("listening", "addr", addr)

	waitExitSignal()

	if err := srv.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

func openDatabase(ctx context.Context, cfg config.Persistence, lgr glog.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.GetDSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to open database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.RegisterModel((*taskforge.User)(nil), (*taskforge.Todo)(nil))

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to init migrations")
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to run migrations")
	}

	if group.IsZero() {
		lgr.Debug("database schema up to date")
	} else {
		lgr.Info("migrated database", "group", group.String())
	}

	if cfg.GetSeed() {
		if err := seedFixtures(ctx, db); err != nil {
			return nil, err
		}
		lgr.Info("seeded dev fixtures")
	}

	return db, nil
}

// seedFixtures loads the dev dataset. Password hashes are produced at
// load time through the hash template func so fixtures stay readable.
func seedFixtures(ctx context.Context, db *bun.DB) error {
	funcs := template.FuncMap{
		"hash": func(password string) (string, error) {
			return taskforge.HashPassword(password)
		},
	}

	fixture := dbfixture.New(db, dbfixture.WithTemplateFuncs(funcs))
	if err := fixture.Load(ctx, fixturesFS, "data/fixtures/fixtures.yml"); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to seed fixtures")
	}

	return nil
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
