// Package cli is the interactive terminal frontend. It wires the credential
// store, the API client and the session manager together and exposes them as
// REPL commands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/teamboard/client/internal/api"
	"github.com/teamboard/client/internal/config"
	"github.com/teamboard/client/internal/credstore"
	"github.com/teamboard/client/internal/logging"
	"github.com/teamboard/client/internal/meetings"
	"github.com/teamboard/client/internal/models"
	"github.com/teamboard/client/internal/session"
	"github.com/teamboard/client/internal/tasks"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	store   credstore.Repository
	db      *credstore.Store
	client  *api.Client
	session *session.Manager
	tasks   *tasks.Service
	meets   *meetings.Service
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := credstore.Open(ctx, cfg.CredentialDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	client := api.New(ctx, cfg.ServerBaseURL, db, log)
	mgr := session.NewManager(client, db, log)

	app := &App{
		config:  cfg,
		log:     log,
		store:   db,
		db:      db,
		client:  client,
		session: mgr,
		tasks:   tasks.NewService(client),
		meets:   meetings.NewService(client),
		reader:  bufio.NewReader(os.Stdin),
	}

	mgr.OnLogin(func(user *models.UserProfile) {
		if user != nil {
			printlnFn("Logged in as", user.Username)
		}
	})
	mgr.OnLogout(func() {
		printlnFn("Logged out")
	})
	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsUserAuthenticated()
}

func (a *App) status() string {
	if user := a.session.CurrentUser(); user != nil {
		return fmt.Sprintf("(%s)", user.Username)
	}
	return fmt.Sprintf("(%s)", a.session.State())
}

// Run restores the previous session and enters the REPL. It blocks until the
// user exits or stdin is closed.
func (a *App) Run(ctx context.Context) error {
	if a.db != nil {
		defer a.db.Close()
	}

	if err := a.session.Initialize(ctx); err != nil {
		return err
	}

	printlnFn("Welcome to teamboard (type 'help' for commands)")
	if user := a.session.CurrentUser(); user != nil {
		printlnFn("Logged in as", user.Username)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}
