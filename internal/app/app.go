package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"slot_backend/internal/config"
)

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

// Logger - логгер провайдера, а если он еще не поднят - production по умолчанию
func (s *App) Logger() *zap.Logger {
	if s.ServiceProvider != nil && s.ServiceProvider.log != nil {
		return s.ServiceProvider.log
	}
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Run поднимает HTTP сервер и ждет SIGINT/SIGTERM.
// Паника ленивой инициализации провайдера возвращается как ошибка.
func (s *App) Run() (err error) {
	envErr := config.Load(".env")
	s.initServiceProvider()
	defer s.ServiceProvider.Close()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("app.Run: %v", r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := s.ServiceProvider.Logger()
	if envErr != nil {
		logger.Warn(".env not loaded, using process environment", zap.Error(envErr))
	}

	srv := &http.Server{
		Addr:              s.ServiceProvider.HTTPCfg().Address(),
		Handler:           s.ServiceProvider.Router(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("storage", s.ServiceProvider.StorageCfg().Backend()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ServiceProvider.HTTPCfg().ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
