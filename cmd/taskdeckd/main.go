package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taskdeck/internal/daemon"
	"taskdeck/internal/infrastructure/config"
	"taskdeck/internal/infrastructure/logging"
)

var (
	configPath string
	listenAddr string
	dataDir    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "taskdeckd",
	Short: "Reference task store for taskdeck",
	Long: `taskdeckd serves the task and trash lists over HTTP+JSON.

Both lists are kept as JSON files in the data directory. Several taskdeckd
processes may share one directory; writes are serialized with a file lock.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoaderAt(configPath)
		if configPath == "" {
			var err error
			if loader, err = config.NewLoader(); err != nil {
				return fmt.Errorf("failed to create config loader: %w", err)
			}
		}
		cfg, err := loader.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if listenAddr != "" {
			cfg.Server.ListenAddr = listenAddr
		}
		if dataDir != "" {
			cfg.Server.DataDir = dataDir
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		// The store always logs to stderr; the log file belongs to the TUI
		logger, err := logging.Setup(config.LogConfig{Level: cfg.Log.Level})
		if err != nil {
			return err
		}
		return serve(cfg, logger)
	},
}

// serve runs the store until a signal arrives or the listener fails
func serve(cfg *config.Config, logger *log.Logger) error {
	server, err := daemon.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	var serveErr error
	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("received signal")
	case serveErr = <-errChan:
		if serveErr != nil {
			logger.WithError(serveErr).Error("server error")
		}
	}

	logger.Info("shutting down")
	if err := server.Stop(); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return serveErr
}

func main() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides server.listen_addr)")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding tasks.json and trash.json")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
