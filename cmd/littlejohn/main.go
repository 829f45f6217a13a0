package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/littlejohn/internal/config"
	"github.com/dropDatabas3/littlejohn/internal/http/server"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/store"

	// Registro de drivers para el comando drivers.
	_ "github.com/dropDatabas3/littlejohn/internal/store/adapters/fs"
	_ "github.com/dropDatabas3/littlejohn/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/littlejohn/internal/store/adapters/pg"
	_ "github.com/dropDatabas3/littlejohn/internal/store/adapters/redis"
)

const shutdownGrace = 10 * time.Second

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "littlejohn",
		Short: "Servidor de login social (OAuth2 / OIDC)",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "littlejohn.yaml", "ruta del archivo de configuración YAML")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}

	driversCmd := &cobra.Command{
		Use:   "drivers",
		Short: "Lista los drivers de store disponibles",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.Join(store.Drivers(), "\n"))
		},
	}

	root.AddCommand(serveCmd, driversCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(configPath string) error {
	// .env es opcional; en despliegues reales las variables vienen del
	// entorno del proceso.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "littlejohn",
	})
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := server.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening",
			logger.String("addr", cfg.Server.Addr),
			logger.String("env", cfg.App.Env),
			logger.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", logger.Err(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
