package internal

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	DefaultAppName     = "dprep"
	DefaultConfigPath  = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultCacheDir    = filepath.Join(DefaultConfigPath, ".cache")
	DefaultStorePath   = filepath.Join(DefaultConfigPath, "features.db")
	DefaultConfigFile  = filepath.Join(DefaultConfigPath, "config.yaml")
	DefaultEnvPrefix   = "DPREP"
	DefaultSeparator   = "[sep]"
	DefaultStartText   = "<s>"
	DefaultIgnoreIndex = -100
	DefaultMaxLen      = 512
	DefaultMaskingRate = 0.15
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// GetLoggerWithLevel returns GetLogger filtered to the named level.
// Unknown level names fall back to info.
func GetLoggerWithLevel(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return GetLogger().Level(lvl)
}
