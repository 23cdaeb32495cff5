package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/nimeshab/focusday/internal/config"
	"github.com/nimeshab/focusday/internal/logger"
	"github.com/nimeshab/focusday/internal/server"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/storage/postgres"
	"github.com/nimeshab/focusday/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." short:"c" default:"focusday.yaml"`

	Serve   ServeCmd   `cmd:"" help:"Start the API server." default:"1"`
	Init    InitCmd    `cmd:"" help:"Create the database and apply the schema."`
	Migrate MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	Seed    SeedCmd    `cmd:"" help:"Load demo data into the database."`
}

type appContext struct {
	cfg *config.Config
}

func (a *appContext) openStore() (storage.Provider, error) {
	var store storage.Provider
	switch a.cfg.Database.Driver {
	case "postgres":
		store = postgres.NewStore(a.cfg.Database.DSN)
	default:
		store = sqlite.NewStore(a.cfg.Database.Path)
	}
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("focusday"),
		kong.Description("Personal productivity API server: tasks, habits, routines, stats"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: cfg.Log.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(&appContext{cfg: cfg}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type ServeCmd struct{}

func (c *ServeCmd) Run(app *appContext) error {
	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(app.cfg, store).Run(ctx)
}

type InitCmd struct{}

func (c *InitCmd) Run(app *appContext) error {
	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("database initialized", "driver", app.cfg.Database.Driver)
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(app *appContext) error {
	// Opening the store applies any pending migrations.
	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("database schema is up to date", "driver", app.cfg.Database.Driver)
	return nil
}
