package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultCommands are the pipelines run for every domain. `{domain}` is
// replaced with the shell-quoted domain.
var DefaultCommands = []string{ //nolint: gochecknoglobals
	"echo https://{domain}/",
	"echo {domain} | waybackurls | sort -u | uro",
	"echo {domain} | gau --subs | sort -u | uro",
}

// Config represents the application configuration.
// Every value can come from the YAML file, the environment, or a default.
type Config struct {
	// Environment selects the log encoder (development or production)
	Environment string `env:"PASSIVE_ENVIRONMENT" env-default:"development" yaml:"environment"`
	// Debug lowers the log level to debug
	Debug bool `env:"PASSIVE_DEBUG" env-default:"false" yaml:"debug"`

	// Shell is the interpreter used to run the pipelines
	Shell string `env:"PASSIVE_SHELL" env-default:"sh" yaml:"shell"`
	// Commands are the pipeline templates, run in order. In the environment
	// they are separated by "|||", which no shell pipeline contains
	Commands []string `env:"PASSIVE_COMMANDS" env-separator:"|||" yaml:"commands"`
	// CommandTimeout bounds each pipeline; zero disables the timeout
	CommandTimeout time.Duration `env:"PASSIVE_COMMAND_TIMEOUT" env-default:"0s" yaml:"commandTimeout"`

	// TempDir is where staging files are created; empty uses the OS default
	TempDir string `env:"PASSIVE_TEMP_DIR" yaml:"tempDir"`
	// KeepStaging leaves staging files on disk after a domain is finalized
	KeepStaging bool `env:"PASSIVE_KEEP_STAGING" env-default:"false" yaml:"keepStaging"`
	// Verbose mirrors every pipeline's output to the console
	Verbose bool `env:"PASSIVE_VERBOSE" env-default:"false" yaml:"verbose"`

	Output struct {
		// Dir is where result files are written
		Dir string `env:"PASSIVE_OUTPUT_DIR" env-default:"." yaml:"dir"`
		// Suffix is appended to the domain to name the result file
		Suffix string `env:"PASSIVE_OUTPUT_SUFFIX" env-default:".passive" yaml:"suffix"`
		// NoColor prints progress lines without ANSI colors
		NoColor bool `env:"PASSIVE_OUTPUT_NO_COLOR" env-default:"false" yaml:"noColor"`
	} `yaml:"output"`

	Metrics struct {
		// File, when set, receives a Prometheus textfile at the end of the run
		File string `env:"PASSIVE_METRICS_FILE" yaml:"file"`
	} `yaml:"metrics"`
}

// Load reads the YAML file at configPath and the environment. A missing file
// is not an error: only the environment and defaults are used then.
func Load(configPath string) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(configPath)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	case errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("could not stat config: %w", statErr)
	}

	if len(cfg.Commands) == 0 {
		cfg.Commands = append([]string(nil), DefaultCommands...)
	}

	return &cfg, nil
}
