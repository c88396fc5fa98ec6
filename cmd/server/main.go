package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wpconn-dashboard/internal/api"
	"wpconn-dashboard/internal/config"
	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/internal/health"
	"wpconn-dashboard/internal/listview"
	"wpconn-dashboard/internal/logging"
	"wpconn-dashboard/internal/metrics"
	"wpconn-dashboard/internal/notify"
	"wpconn-dashboard/internal/session"
	"wpconn-dashboard/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting wpconn dashboard",
		zap.String("env", cfg.AppEnv),
		zap.String("gateway", cfg.GatewayURL),
		zap.String("login_mode", cfg.LoginMode),
		zap.String("session_store", cfg.SessionStore),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricRegistry := metrics.Registry(cfg.MetricsNamespace)

	client := gateway.NewClient(gateway.Options{
		BaseURL:   cfg.GatewayURL,
		APIKey:    cfg.GatewayAPIKey,
		HealthURL: cfg.GatewayHealthURL,
		Timeout:   cfg.GatewayTimeout,
		Logger:    logger,
		Metrics:   metricRegistry,
	})

	store, err := session.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed closing session store", zap.Error(err))
		}
	}()

	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.SessionCookie,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.CookieSecure,
		Logger:     logger,
		Metrics:    metricRegistry,
	})
	if _, err := sessions.Rehydrate(ctx); err != nil {
		logger.Warn("failed rehydrating sessions", zap.Error(err))
	}

	var auth session.Authenticator = session.LocalAuthenticator{Username: cfg.LocalUsername, Password: cfg.LocalPassword}
	if cfg.LoginMode == config.LoginModeBackend {
		auth = session.NewBackendAuthenticator(client)
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	poller := health.NewPoller(client, cfg.HealthInterval, logger, metricRegistry)
	poller.OnChange(hub.NotifyHealth)
	go poller.Run(ctx)

	router, err := api.NewRouter(api.Deps{
		Client:        client,
		Sessions:      sessions,
		Authenticator: auth,
		Views:         listview.NewRegistry(),
		Notices:       notify.NewCenter(metricRegistry),
		Poller:        poller,
		Hub:           hub,
		Logger:        logger,
		Metrics:       metricRegistry,
		Location:      loc,
		LoginMode:     cfg.LoginMode,
		APIKey:        cfg.GatewayAPIKey,
		DefaultScope:  cfg.DefaultClientID,
		PageSize:      cfg.PageSize,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
