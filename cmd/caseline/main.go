package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/mbelozerov/caseline/internal/cli"
	"github.com/mbelozerov/caseline/internal/db"
	"github.com/mbelozerov/caseline/internal/repository"
	"github.com/mbelozerov/caseline/internal/service"
	"github.com/mbelozerov/caseline/internal/testsvc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.caseline/caseline.db
	dbPath := os.Getenv("CASELINE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".caseline", "caseline.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	userRepo := repository.NewSQLiteUserRepo(database)
	caseRepo := repository.NewSQLiteCaseRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	auth := service.NewAuthService(userRepo)
	session := service.NewPersistentSession(userRepo)

	// The remote client carries the active user's credentials. Without a
	// login the client is wired with empty credentials and every remote
	// call reports ErrMissingCredentials; the local commands still work.
	cfg := testsvc.LoadConfig()
	var orgURL, pat string
	if u, err := auth.ActiveUser(context.Background()); err == nil {
		orgURL, pat = u.OrgURL, u.PersonalAccessToken
		session.SetUser(u)
		if err := session.Restore(context.Background()); err != nil {
			return fmt.Errorf("loading selection: %w", err)
		}
	} else if !errors.Is(err, service.ErrNotLoggedIn) {
		return fmt.Errorf("loading active session: %w", err)
	}

	var observer testsvc.Observer = testsvc.NoopObserver{}
	if cfg.LogCalls {
		observer = testsvc.NewLogObserver(os.Stderr)
	}
	client := testsvc.NewClient(cfg, orgURL, pat, observer)

	app := &cli.App{
		Auth:    auth,
		Suites:  service.NewSuiteService(client, session, cfg),
		Review:  service.NewReviewService(caseRepo, userRepo, client, session, uow),
		Session: session,
	}

	// Detect interactive terminal for forms and pickers.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
