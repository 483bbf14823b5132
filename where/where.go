// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable used to override the default configuration directory.
const EnvConfigPath = "REELCAST_CONFIG_PATH"

func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory.
// It can be overridden with the REELCAST_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return mkdir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return mkdir(filepath.Join(base, constant.App))
}

// Cache resolves the persistent cache directory, falling back to ./cache when the platform has none.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return mkdir(filepath.Join(base, constant.App))
}

// Responses is where raw scraper HTTP responses are cached.
func Responses() string {
	return mkdir(filepath.Join(Cache(), "responses"))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Sources resolves the directory containing local Lua scrapers.
func Sources() string {
	return mkdir(filepath.Join(Config(), "sources"))
}

// Streams is the persistent result cache used to resume playback.
func Streams() string {
	return filepath.Join(Cache(), "streams.json")
}

// Queries is the registry of previously resolved content keys.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp resolves a directory for transient artifacts.
func Temp() string {
	return mkdir(filepath.Join(os.TempDir(), constant.App))
}
