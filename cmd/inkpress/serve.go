// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/inkpress/inkpress/internal/auth"
	authpg "github.com/inkpress/inkpress/internal/auth/postgres"
	"github.com/inkpress/inkpress/internal/blog"
	blogpg "github.com/inkpress/inkpress/internal/blog/postgres"
	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/internal/observability"
	"github.com/inkpress/inkpress/internal/store"
	"github.com/inkpress/inkpress/internal/web"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server. Pending database migrations are
applied on startup unless --auto-migrate=false.`,
		RunE: runServe,
	}

	flags := cmd.Flags()
	flags.String("http.addr", "", "API listen address")
	flags.String("database.url", "", "PostgreSQL connection URL")
	flags.String("auth.token_secret", "", "secret for signing access tokens")
	flags.Duration("auth.access_ttl", 0, "access token lifetime")
	flags.Duration("auth.reset_ttl", 0, "password reset token lifetime")
	flags.String("log.format", "", "log format (json or text)")
	flags.String("log.level", "", "log level (debug, info, warn, error)")
	flags.String("metrics.addr", "", "metrics/health HTTP address (empty = disabled)")
	flags.Bool("auto-migrate", true, "apply pending migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	path, explicit, err := configPath(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(path, explicit, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("inkpress", version, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))
	logger := slog.Default()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	autoMigrate, err := cmd.Flags().GetBool("auto-migrate")
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := applyMigrations(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:    cfg.Auth.TokenSecret,
		AccessTTL: cfg.Auth.AccessTTL,
		ResetTTL:  cfg.Auth.ResetTTL,
	})
	if err != nil {
		return err
	}

	authService := auth.NewService(authpg.NewUserRepository(pool), auth.NewArgon2idHasher(), tokens)
	postService := blog.NewPostService(blogpg.NewPostRepository(pool), blogpg.NewCommentRepository(pool))
	commentService := blog.NewCommentService(blogpg.NewCommentRepository(pool), blogpg.NewPostRepository(pool))

	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(cfg.Metrics.Addr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(ctx, time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	apiServer := web.NewServer(cfg.HTTP.Addr, authService, postService, commentService, metrics, logger)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	cmd.Println("Inkpress server started on " + apiServer.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("failed to stop api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("failed to stop observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func applyMigrations(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}

// monitorServerErrors cancels the run context when a server reports an
// error. A closed channel means a clean shutdown.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			slog.Error("server error", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
