package rowstore

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	hybridrow "github.com/microsoft/HybridRow-sub002"
)

type Options struct {
	Path      string `mapstructure:"path"`
	MmapSize  int    `mapstructure:"mmap_size"`
	IsTesting bool   `mapstructure:"testing"`

	// Verify validates every row read from the store.
	Verify bool `mapstructure:"verify"`

	// Parallelism caps the goroutines used by ReadMany. Zero means 8.
	Parallelism int `mapstructure:"parallelism"`

	Row hybridrow.Options `mapstructure:"row"`

	Logger *slog.Logger `mapstructure:"-"`
}

const defaultParallelism = 8

// LoadOptions reads store options from a YAML file, with HYBRIDROW_STORE_
// environment overrides (HYBRIDROW_STORE_PATH, HYBRIDROW_STORE_ROW_MAX_SIZE).
func LoadOptions(path string) (Options, error) {
	v := viper.New()
	v.SetEnvPrefix("HYBRIDROW_STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("path", "")
	v.SetDefault("mmap_size", 0)
	v.SetDefault("testing", false)
	v.SetDefault("verify", false)
	v.SetDefault("parallelism", defaultParallelism)
	v.SetDefault("row.max_size", 0)
	v.SetDefault("row.initial_capacity", 256)
	v.SetDefault("row.log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var opt Options
	if err := v.Unmarshal(&opt); err != nil {
		return Options{}, fmt.Errorf("decode config: %w", err)
	}
	level, err := hybridrow.ParseLogLevel(opt.Row.LogLevel)
	if err != nil {
		return Options{}, err
	}
	opt.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opt.Row.Logger = opt.Logger.With("component", "hybridrow")
	return opt, nil
}
