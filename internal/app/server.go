package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/msomdec/ricettario/internal/config"
	"github.com/msomdec/ricettario/internal/handler"
	"github.com/msomdec/ricettario/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP server with the services it owns.
type Server struct {
	srv     *http.Server
	limiter *service.TokenBucket
}

// NewServer wires the services on top of b and builds the HTTP server.
func NewServer(cfg *config.Config, b *Backend) *Server {
	authService := service.NewAuthService(b.Users, cfg.JWTSecret, cfg.BcryptCost)
	imageService := service.NewImageService(b.Blobs, int(cfg.MaxImageBytes))
	recipeService := service.NewRecipeService(b.Recipes, imageService)
	limiter := service.NewTokenBucket(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	router := handler.NewRouter(handler.Deps{
		Auth:          authService,
		Recipes:       recipeService,
		Blobs:         b.BlobReader,
		Limiter:       limiter,
		Health:        b.DB,
		Backend:       b.Name,
		CookieSecure:  cfg.CookieSecure,
		RedirectDelay: cfg.RedirectDelay,
		MaxImageBytes: cfg.MaxImageBytes,
	})

	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1MB
		},
		limiter: limiter,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully. It returns
// the first listener or shutdown error.
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Stop()

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
