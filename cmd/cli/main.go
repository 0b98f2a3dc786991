package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/pulse/internal/buildinfo"
	"github.com/dmitrijs2005/pulse/internal/client/api"
	"github.com/dmitrijs2005/pulse/internal/client/apiclient"
	"github.com/dmitrijs2005/pulse/internal/client/cli"
	"github.com/dmitrijs2005/pulse/internal/client/config"
	"github.com/dmitrijs2005/pulse/internal/client/session"
	"github.com/dmitrijs2005/pulse/internal/client/storage"
	"github.com/dmitrijs2005/pulse/internal/filex"
	"github.com/dmitrijs2005/pulse/internal/logging"
)

// tokenStore is what main needs from either storage backend.
type tokenStore interface {
	session.TokenStore
	Close() error
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("config error: %v", r)
		}
	}()

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	store, err := openStore(ctx, cfg.DatabasePath)
	if err != nil {
		log.Printf("error initializing storage: %v", err)
		return
	}
	defer store.Close()

	client := apiclient.New(cfg.ResolveBaseURL(),
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithRefreshTimeout(cfg.RefreshTimeout),
		apiclient.WithLogger(logger),
	)
	ctrl := session.NewController(client, api.NewAuthAPI(client), store, session.WithLogger(logger))
	defer ctrl.Close()

	cli.NewApp(cfg, client, ctrl, os.Stdin, os.Stdout).Run(ctx)
}

// openStore keeps the session in SQLite, or in memory when no path is configured.
func openStore(ctx context.Context, path string) (tokenStore, error) {
	if path == "" {
		return storage.NewMemoryStore(), nil
	}
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	return storage.Open(ctx, path)
}
