// Package server wires the promptkeeper server together: configuration,
// logging, the user store, the credential service and the HTTP boundary.
// It also owns process signal handling and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/promptkeeper/internal/logging"
	"github.com/dmitrijs2005/promptkeeper/internal/server/auth"
	"github.com/dmitrijs2005/promptkeeper/internal/server/config"
	"github.com/dmitrijs2005/promptkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/promptkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/promptkeeper/internal/server/rest"
	"github.com/dmitrijs2005/promptkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	userService *services.UserService
	guard       *auth.Guard
	metrics     *metrics.Metrics
}

// NewApp validates c and opens the store. Logs go to stdout as JSON.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewJSON(logOut, c.LogLevel)

	rm, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	codec := auth.NewCodec([]byte(c.SecretKey), c.TokenValidityDuration)
	us := services.NewUserService(rm.Users(), auth.NewBcryptHasher(), codec, logger)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		userService: us,
		guard:       auth.NewGuard(codec),
		metrics:     metrics.New(),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context) error {
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.guard, app.metrics, app.config.ShutdownTimeout)
	return s.Run(ctx)
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the store. It returns the server error, if any.
func (app *App) Run(ctx context.Context) error {

	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.startHTTPServer(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing store failed", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
