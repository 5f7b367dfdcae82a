package config

import "os"

// Environment variables that override the config file
const (
	EnvRemoteURL  = "TASKDECK_REMOTE_URL"
	EnvListenAddr = "TASKDECK_LISTEN_ADDR"
	EnvDataDir    = "TASKDECK_DATA_DIR"
	EnvLogLevel   = "TASKDECK_LOG_LEVEL"
)

// EnvOrDefault returns the environment variable value or fallback when it is empty.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func applyEnv(cfg *Config) {
	cfg.Remote.BaseURL = EnvOrDefault(EnvRemoteURL, cfg.Remote.BaseURL)
	cfg.Server.ListenAddr = EnvOrDefault(EnvListenAddr, cfg.Server.ListenAddr)
	cfg.Server.DataDir = EnvOrDefault(EnvDataDir, cfg.Server.DataDir)
	cfg.Log.Level = EnvOrDefault(EnvLogLevel, cfg.Log.Level)
}
