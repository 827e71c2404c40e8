package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/ymzhao/vodbridge/internal/api"
	"github.com/ymzhao/vodbridge/internal/config"
	"github.com/ymzhao/vodbridge/internal/database"
	"github.com/ymzhao/vodbridge/internal/endpoint"
	apperrors "github.com/ymzhao/vodbridge/internal/errors"
	"github.com/ymzhao/vodbridge/internal/logger"
	"github.com/ymzhao/vodbridge/internal/maccms"
	"github.com/ymzhao/vodbridge/internal/shutdown"
)

var rootCmd = &cobra.Command{
	Use:   "vodbridge",
	Short: "vodbridge serves normalized MacCMS video data over a REST API",
	Long: `vodbridge binds to a user-configurable MacCMS-style VOD endpoint,
normalizes its loosely-typed responses into display-ready records,
and exposes categories, listings, search and detail over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vodbridge API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vodbridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vodbridge v0.1.0")
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

func serve() error {
	cfg := config.Get()
	logger.InitializeLoggers(cfg.GetAppLogLevel(), cfg.GetDatabaseLogLevel())
	log := logger.AppLogger()

	if err := database.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize settings storage: %w", err)
	}

	store := endpoint.NewStore(database.Get())
	binding := maccms.NewBinding(maccms.BindingConfig{
		Store: store,
		Client: maccms.ClientConfig{
			Dialect:       cfg.Source.Dialect,
			Timeout:       time.Duration(cfg.Source.TimeoutSeconds) * time.Second,
			RetryAttempts: cfg.Source.RetryAttempts,
		},
	})

	// Keep the binding in step with registry mutations.
	store.OnChange(func() {
		if err := binding.Refresh(); err != nil {
			log.Error("failed to refresh API client binding", err)
		}
	})
	if err := binding.Refresh(); err != nil {
		return err
	}
	if !binding.Bound() {
		log.Warn("no API endpoint configured yet; register one via POST /api/v1/endpoints")
	}

	facade := maccms.NewFacade(binding)
	server := api.NewServer(facade, binding, store)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: server.Handler(),
	}

	handler := shutdown.New(15 * time.Second)
	handler.Register(func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})
	handler.Register(func(ctx context.Context) error {
		return database.Close()
	})

	go func() {
		log.WithFields(map[string]interface{}{"port": cfg.API.Port}).Info("starting API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("API server failed", apperrors.Wrap(err, apperrors.CodeInternal, "listen failed"))
			os.Exit(1)
		}
	}()

	handler.Wait()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
