package cli

import (
	"fmt"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/auth"
	"github.com/existflow/inkwell/internal/config"
	"github.com/existflow/inkwell/internal/session"
	"github.com/existflow/inkwell/internal/store"
)

// App bundles the wired-up client components commands operate on
type App struct {
	Config *config.Config
	API    *api.Client
	Auth   *auth.Machine
	Posts  *store.Store
	Stats  *store.StatsStore
}

// newApp builds the client stack: config, session store, API client
// with the machine as token source, and the state stores.
func newApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	sessions, err := session.NewDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to locate session store: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL)
	machine := auth.New(client, sessions)
	client.TokenFunc = machine.Token

	posts := store.New(client, func() string {
		if u := machine.CurrentUser(); u != nil {
			return u.ID
		}
		return ""
	})
	posts.SetPageSize(cfg.PageSize)

	return &App{
		Config: cfg,
		API:    client,
		Auth:   machine,
		Posts:  posts,
		Stats:  store.NewStatsStore(client),
	}, nil
}

// requireAuth validates the session before an authenticated command
func (a *App) requireAuth() error {
	if !a.Auth.IsAuthenticated() {
		return fmt.Errorf("not logged in, run 'inkwell auth login' first")
	}
	if err := a.Auth.CheckSession(); err != nil {
		return err
	}
	return nil
}
