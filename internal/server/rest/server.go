// Package rest is the HTTP boundary of the server: routing, JSON envelopes,
// the access-guard middleware and the mapping of error kinds to statuses.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/promptkeeper/internal/logging"
	"github.com/dmitrijs2005/promptkeeper/internal/server/auth"
	"github.com/dmitrijs2005/promptkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/promptkeeper/internal/server/models"
	"github.com/dmitrijs2005/promptkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const DefaultShutdownTimeout = 10 * time.Second

// UserService is the credential service as seen by the handlers.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
	GetDetails(ctx context.Context, id auth.Identity) (*models.User, error)
	EditName(ctx context.Context, id auth.Identity, name string) (*models.User, error)
}

// Authorizer resolves the caller of a protected route.
type Authorizer interface {
	Authorize(c auth.Carrier) (auth.Identity, error)
}

type HTTPServer struct {
	address         string
	users           UserService
	guard           Authorizer
	metrics         *metrics.Metrics
	logger          logging.Logger
	shutdownTimeout time.Duration
	engine          *gin.Engine
}

func NewHTTPServer(a string, l logging.Logger, us UserService, g Authorizer, m *metrics.Metrics, shutdownTimeout time.Duration) *HTTPServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	if m == nil {
		m = metrics.New()
	}

	s := &HTTPServer{
		address:         a,
		users:           us,
		guard:           g,
		metrics:         m,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router, mainly for httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
