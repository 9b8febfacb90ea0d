package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/workspace-assistant/internal/auth"
	"github.com/rcliao/workspace-assistant/internal/chat"
	"github.com/rcliao/workspace-assistant/internal/metrics"
	"github.com/rcliao/workspace-assistant/internal/server"
	"github.com/rcliao/workspace-assistant/internal/session"
	"github.com/rcliao/workspace-assistant/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Run:   runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "Listen port (overrides server.port)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	logger, err := newLogger(cfg)
	if err != nil {
		exitErr("logger", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		exitErr("config", err)
	}

	var provider auth.Provider
	switch cfg.Auth.Provider {
	case "firebase":
		provider = auth.NewFirebase(cfg.Auth.Firebase.APIKey, cfg.Auth.Firebase.Endpoint, nil, logger)
	default:
		logger.Warn().Msg("using the in-memory local identity provider; accounts are lost on restart")
		provider = auth.NewLocal(0)
	}

	sessions := session.NewManager(logger, session.Options{
		TTL:       cfg.SessionTTL(),
		OpenStore: func() (store.Store, error) { return store.Open(cfg.Session.Backend, loc) },
		OnChange:  metrics.SetActiveSessions,
	})
	defer sessions.Close()

	responder := chat.NewResponder(logger,
		chat.WithClock(func() time.Time { return time.Now().In(loc) }),
		chat.WithObserver(func(i chat.Intent) { metrics.ObserveIntent(string(i)) }),
	)

	srv := server.New(server.Options{
		Addr:         cfg.Server.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		CookieName:   cfg.Session.CookieName,
		AnimationURL: cfg.Landing.AnimationURL,
		Location:     loc,
	}, sessions, provider, responder, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		exitErr("serve", err)
	}
}
