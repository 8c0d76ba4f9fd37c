package constants

import (
	"os"
	"path/filepath"
)

const (
	AppName = "otpcode"

	// EnvPrefix prefixes every environment variable otpcode reads.
	EnvPrefix = "OTPCODE"

	// DefaultSecretEnv is the environment variable checked for a secret when
	// none is given on the command line.
	DefaultSecretEnv = "OTPCODE_SECRET"

	// ConfigFileName is looked up under the user config directory.
	ConfigFileName = "config.yaml"

	DefaultBatchConcurrency = 8
	MaxBatchConcurrency     = 64

	// DefaultQRSize is the width and height of generated QR PNGs.
	DefaultQRSize = 256
)

// DefaultConfigPath returns $XDG_CONFIG_HOME/otpcode/config.yaml, falling
// back to ~/.config/otpcode/config.yaml. It returns "" when neither base
// directory can be determined.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, ConfigFileName)
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}

	return filepath.Join(home, ".config", AppName, ConfigFileName)
}
