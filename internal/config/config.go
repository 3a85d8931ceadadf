package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/boundary/errors"
)

// EnvPrefix prefixes environment overrides, e.g. BOUNDARY_LOG_LEVEL.
const EnvPrefix = "BOUNDARY"

// ValidFormats lists the byte encodings the CLI prints and accepts.
var ValidFormats = []string{"hex", "base64"}

// Config holds CLI configuration.
type Config struct {
	Log      LogConfig
	Classify ClassifyConfig
	Output   OutputConfig
}

// LogConfig holds zap settings.
type LogConfig struct {
	Level       string
	Development bool
}

// ClassifyConfig holds classifier options.
type ClassifyConfig struct {
	AnyFallback bool `mapstructure:"any_fallback"`
	MaxDepth    int  `mapstructure:"max_depth"`
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Format string
}

// Load reads configuration from defaults, an optional YAML file and env.
// path wins over BOUNDARY_CONFIG; an explicitly named file must exist.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("classify.any_fallback", false)
	v.SetDefault("classify.max_depth", 64)
	v.SetDefault("output.format", "hex")

	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "boundary"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !stderrors.As(err, &notFound) {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read config file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if !IsValidFormat(c.Output.Format) {
		return errors.InvalidInput(errors.PhaseConfig,
			"invalid output format "+strings.TrimSpace(c.Output.Format)+": must be one of "+strings.Join(ValidFormats, ", "))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "invalid log level")
	}
	if c.Classify.MaxDepth < 1 {
		return errors.InvalidInput(errors.PhaseConfig, "classify.max_depth must be positive")
	}
	return nil
}

// Level returns the parsed log level, defaulting to warn.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}

// IsValidFormat checks if the format is one of the allowed values.
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
