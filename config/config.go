// Package config registers reelcast settings and binds them to viper, the environment and the config file.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/where"
	"github.com/spf13/viper"
)

const fileType = "toml"

// EnvKeyReplacer maps "streams.sort_mode" to "streams_sort_mode".
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// File is the path of the config file, whether it exists or not.
func File() string {
	return filepath.Join(where.Config(), constant.App+"."+fileType)
}

// Setup loads defaults, environment bindings and the config file, in increasing precedence.
// A missing file is not an error.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType(fileType)
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return nil
	}
	return err
}

// Save writes the in-memory settings, creating the file on first use.
func Save() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return viper.SafeWriteConfig()
	}
	return err
}

// Remove deletes the config file.
func Remove() error {
	return filesystem.API().Remove(File())
}
