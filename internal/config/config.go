// Package config loads otpcode settings from flags, OTPCODE_* environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bashhack/otpcode/internal/constants"
)

// Keys shared with the command-line flag bindings.
const (
	KeyVerbose          = "verbose"
	KeyShowNext         = "show_next"
	KeySecretEnv        = "secret_env"
	KeyBatchConcurrency = "batch.concurrency"
)

// Config is the resolved CLI configuration.
type Config struct {
	Verbose   bool        `mapstructure:"verbose"`
	ShowNext  bool        `mapstructure:"show_next"`
	SecretEnv string      `mapstructure:"secret_env" validate:"required"`
	Batch     BatchConfig `mapstructure:"batch"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

// BatchConfig configures the batch command.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateBatch, BatchConfig{})
	return v
}

// validateBatch caps concurrency at constants.MaxBatchConcurrency.
func validateBatch(sl validator.StructLevel) {
	b := sl.Current().Interface().(BatchConfig)
	if b.Concurrency > constants.MaxBatchConcurrency {
		sl.ReportError(b.Concurrency, "Concurrency", "Concurrency", "max", strconv.Itoa(constants.MaxBatchConcurrency))
	}
}

// New returns a viper instance with otpcode's defaults and environment
// binding. Flags are bound to it by the caller before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyShowNext, false)
	v.SetDefault(KeySecretEnv, constants.DefaultSecretEnv)
	v.SetDefault(KeyBatchConcurrency, constants.DefaultBatchConcurrency)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file and returns the validated Config. An explicit
// path must exist; the default path is read only if present.
func Load(v *viper.Viper, path string) (*Config, error) {
	file := path
	if file == "" {
		if def := constants.DefaultConfigPath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				file = def
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = file

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fmt.Errorf("invalid config: %s=%v failed %q", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
