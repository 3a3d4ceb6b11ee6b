package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazario/app/api"
	"github.com/shashiranjanraj/bazario/app/store"
	"github.com/shashiranjanraj/bazario/config"
	"github.com/shashiranjanraj/bazario/pkg/event"
	"github.com/shashiranjanraj/bazario/pkg/httpclient"
	"github.com/shashiranjanraj/bazario/pkg/kvstore"
	"github.com/shashiranjanraj/bazario/pkg/logger"
	"github.com/shashiranjanraj/bazario/pkg/querycache"
	"github.com/shashiranjanraj/bazario/pkg/storage"
)

// application holds the wired-together client state shared by every command.
type application struct {
	kv         kvstore.Store
	sessions   *store.SessionStore
	cart       *store.CartStore
	client     *api.Client
	reconciler *store.Reconciler
	watchdog   *store.Watchdog
}

var app *application

var rootCmd = &cobra.Command{
	Use:           "bazario",
	Short:         "Bazario terminal storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return boot()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		shutdown()
	},
}

// boot wires stores, API client and global hooks, then hydrates synchronously
// so every command starts from the persisted state.
func boot() error {
	if app != nil {
		return nil
	}

	config.Load()

	kv, err := kvstore.Open()
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}

	sessions := store.NewSessionStore(kv)
	cart := store.NewCartStore(kv)
	client := api.New(config.APIBaseURL(), sessions.Token)
	reconciler := store.NewReconciler(sessions, cart, client)
	watchdog := store.NewWatchdog(sessions)

	// Any authenticated request bouncing with a 401 tears the session down
	// everywhere through the event bus.
	httpclient.SetUnauthorizedHook(func() {
		event.Fire(store.TopicUnauthorized, nil)
	})
	sessions.BindEvents()

	if err := querycache.Connect(); err != nil {
		logger.Warn("query cache unavailable, using in-memory", "error", err)
	}
	storage.Connect()

	sessions.Hydrate()
	cart.Hydrate()
	watchdog.Watch(sessions.Token())

	// The server cart is authoritative once a token is in hand; pull it as
	// soon as the persisted state is loaded. Failures keep the local copy.
	reconciler.Refresh(context.Background())

	app = &application{
		kv:         kv,
		sessions:   sessions,
		cart:       cart,
		client:     client,
		reconciler: reconciler,
		watchdog:   watchdog,
	}
	return nil
}

func shutdown() {
	if app == nil {
		return
	}
	app.watchdog.Stop()
	if err := app.kv.Close(); err != nil {
		logger.Warn("close local store", "error", err)
	}
}

// requireAuth guards commands that make no sense as a guest.
func requireAuth() error {
	if !app.sessions.Authenticated() {
		return fmt.Errorf("you are not logged in, run `bazario login` first")
	}
	return nil
}
