package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gorelay/internal/config"
	"github.com/ZaguanLabs/gorelay/internal/httpapi"
	"github.com/ZaguanLabs/gorelay/internal/logging"
)

type serveFlags struct {
	envFile         string
	host            string
	port            int
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP translation service",
		Long: `Run the HTTP translation service.

Endpoints:
  POST /translate      {"text": "...", "targetLang": "en,zh"}
  POST /translate/all  {"text": "...", "preferredService": "openai"}
  GET  /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadEnv(flags.envFile); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = flags.host
			}
			if cmd.Flags().Changed("port") {
				if flags.port <= 0 || flags.port > 65535 {
					return fmt.Errorf("--port must be between 1 and 65535")
				}
				cfg.Port = flags.port
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env", defaultEnvFile, "Path to the .env file")
	cmd.Flags().StringVar(&flags.host, "host", "0.0.0.0", "Host interface to bind (overrides HOST)")
	cmd.Flags().IntVar(&flags.port, "port", 3000, "HTTP port (overrides PORT)")
	cmd.Flags().DurationVar(&flags.readTimeout, "read-timeout", 10*time.Second, "HTTP read timeout")
	cmd.Flags().DurationVar(&flags.writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
	cmd.Flags().DurationVar(&flags.shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, flags serveFlags) error {
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	rc, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := rc.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("closing response cache failed")
		}
	}()

	providers, err := buildProviders(ctx, cfg, rc, logger)
	if err != nil {
		return err
	}

	relay, err := newRelay(providers, cfg.Preferred(), cfg.TranslateConcurrency, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info().Interface("providers", relay.Providers()).Msg("translation providers ready")

	srv := httpapi.NewServer(relay, logger, httpapi.Options{
		Host:               cfg.Host,
		Port:               cfg.Port,
		ReadTimeout:        flags.readTimeout,
		WriteTimeout:       flags.writeTimeout,
		ShutdownTimeout:    flags.shutdownTimeout,
		TranslatePreferred: cfg.TranslateProviderOrder()[0],
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", cfg.Host).Int("port", cfg.Port).Msg("server failed")
		return err
	}
	return nil
}
