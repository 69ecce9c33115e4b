package hybridrow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Options configure a RowBuffer.
type Options struct {
	// MaxSize caps the row size in bytes; writes that would grow the row
	// beyond it fail with InsufficientBuffer. Zero means no cap.
	MaxSize int `mapstructure:"max_size"`

	// InitialCapacity is the capacity of a fresh row's backing array.
	InitialCapacity int `mapstructure:"initial_capacity"`

	LogLevel string `mapstructure:"log_level"`

	Logger *slog.Logger `mapstructure:"-"`
}

const defaultInitialCapacity = 256

func DefaultOptions() Options {
	return Options{
		InitialCapacity: defaultInitialCapacity,
		LogLevel:        "info",
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// LoadOptions reads options from a YAML file. Every key can be overridden
// by a HYBRIDROW_ environment variable, e.g. HYBRIDROW_MAX_SIZE. An empty
// path loads defaults plus environment.
func LoadOptions(path string) (Options, error) {
	v := newViper("HYBRIDROW")
	v.SetDefault("max_size", 0)
	v.SetDefault("initial_capacity", defaultInitialCapacity)
	v.SetDefault("log_level", "info")
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("decode config: %w", err)
	}
	if opts.MaxSize < 0 || opts.InitialCapacity < 0 {
		return Options{}, fmt.Errorf("config: sizes must not be negative")
	}
	level, err := ParseLogLevel(opts.LogLevel)
	if err != nil {
		return Options{}, err
	}
	opts.Logger = slog.New(leveledHandler{slog.Default().Handler(), level}).With("component", "hybridrow")
	return opts, nil
}

// leveledHandler filters records below level before passing them on.
type leveledHandler struct {
	slog.Handler
	level slog.Level
}

func (h leveledHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h leveledHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return leveledHandler{h.Handler.WithAttrs(attrs), h.level}
}

func (h leveledHandler) WithGroup(name string) slog.Handler {
	return leveledHandler{h.Handler.WithGroup(name), h.level}
}

func newViper(envPrefix string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ParseLogLevel accepts debug, info, warn and error.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", s)
	}
	return level, nil
}
