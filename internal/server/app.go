// Package server wires the in-memory threads API: configuration, storage,
// services and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/pulse/internal/logging"
	"github.com/dmitrijs2005/pulse/internal/server/config"
	"github.com/dmitrijs2005/pulse/internal/server/httpapi"
	"github.com/dmitrijs2005/pulse/internal/server/refreshtokens"
	"github.com/dmitrijs2005/pulse/internal/server/threads"
	"github.com/dmitrijs2005/pulse/internal/server/users"
)

// Demo account created when SeedDemoData is set.
const (
	DemoUsername = "demo"
	DemoPassword = "password123"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	userService   *users.Service
	threadService *threads.Service
	http          *httpapi.Server
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	us := users.NewService(users.NewMemoryRepository(), refreshtokens.NewMemoryRepository(), c)
	ts := threads.NewService(threads.NewMemoryRepository())

	app := &App{
		config:        c,
		logger:        logger,
		userService:   us,
		threadService: ts,
		http:          httpapi.NewServer(c.EndpointAddr, logger, us, ts),
	}

	if c.SeedDemoData {
		if err := app.seed(context.Background()); err != nil {
			return nil, fmt.Errorf("seed error: %w", err)
		}
	}

	return app, nil
}

func (app *App) seed(ctx context.Context) error {
	res, err := app.userService.Register(ctx, users.RegisterInput{
		Username:  DemoUsername,
		Email:     "demo@example.com",
		Password:  DemoPassword,
		FirstName: "Demo",
	})
	if err != nil {
		return err
	}

	author := threads.Author{ID: res.User.ID, Username: res.User.UserName, FirstName: res.User.FirstName}
	for i := 1; i <= 25; i++ {
		title := fmt.Sprintf("Thread #%d", i)
		if _, err := app.threadService.Create(ctx, author, title, "Seeded thread content "+title); err != nil {
			return err
		}
	}
	return nil
}

// Handler exposes the router for in-process use (tests, embedding).
func (app *App) Handler() http.Handler { return app.http.Handler() }

func (app *App) Stats() httpapi.Stats { return app.http.Stats() }

// RevokeSessions invalidates every issued refresh token.
func (app *App) RevokeSessions(ctx context.Context) error {
	return app.userService.RevokeAll(ctx)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"access_ttl", app.config.AccessTokenValidityDuration,
		"rotate_refresh", app.config.RotateRefreshTokens,
	)

	app.initSignalHandler(cancelFunc)

	return app.http.Run(ctx)
}
