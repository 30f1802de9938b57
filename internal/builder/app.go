package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App is the assembled HTTP service
type App struct {
	server          *http.Server
	db              *pgxpool.Pool
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests and closes the pool.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server gracefully")
		return a.shutdown()
	})

	err := g.Wait()

	a.logger.Info("Closing database connections")
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()

	return err
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.logger.Info("HTTP server stopped")
	return nil
}
