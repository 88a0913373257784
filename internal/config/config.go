package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultWidth    = 600
	DefaultHeight   = 300
	DefaultInk      = "#444"
	DefaultInkWidth = 1.2
	DefaultPort     = 8888
	DefaultLogLevel = "info"

	EnvPrefix = "SIGNPAD"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Config holds the settings for one pad process.
type Config struct {
	// Window / pad
	Width    int
	Height   int
	Ink      string
	InkWidth float64
	Signer   string

	// Mirror
	Mirror bool
	Port   int
	MDNS   bool

	OutDir   string
	LogLevel string
}

func DefaultConfig() *Config {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Ink:      DefaultInk,
		InkWidth: DefaultInkWidth,
		Mirror:   false,
		Port:     DefaultPort,
		MDNS:     true,
		OutDir:   dir,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads flags from args (without the program name), environment
// variables prefixed SIGNPAD_, and defaults, in that order of precedence.
// Positional arguments are returned alongside the config.
func Load(args []string) (*Config, []string, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	fs := defineFlags(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	for _, name := range flagNames {
		_ = v.BindPFlag(name, fs.Lookup(name))
	}

	cfg.Width = v.GetInt("width")
	cfg.Height = v.GetInt("height")
	cfg.Ink = v.GetString("ink")
	cfg.InkWidth = v.GetFloat64("inkwidth")
	cfg.Signer = v.GetString("signer")
	cfg.Mirror = v.GetBool("mirror")
	cfg.Port = v.GetInt("port")
	cfg.MDNS = v.GetBool("mdns")
	cfg.OutDir = v.GetString("outdir")
	cfg.LogLevel = v.GetString("loglevel")

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, fs.Args(), nil
}

var flagNames = []string{"width", "height", "ink", "inkwidth", "signer", "mirror", "port", "mdns", "outdir", "loglevel"}

func defineFlags(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("signpad", pflag.ContinueOnError)
	fs.Int("width", cfg.Width, "Initial pad width in pixels")
	fs.Int("height", cfg.Height, "Initial pad height in pixels")
	fs.String("ink", cfg.Ink, "Ink colour as #rgb or #rrggbb")
	fs.Float64("inkwidth", cfg.InkWidth, "Ink line width")
	fs.String("signer", cfg.Signer, "Name printed under exported signatures")
	fs.Bool("mirror", cfg.Mirror, "Serve a live mirror of the pad over websocket")
	fs.Int("port", cfg.Port, "Mirror port")
	fs.Bool("mdns", cfg.MDNS, "Advertise the mirror on the local network")
	fs.String("outdir", cfg.OutDir, "Default directory for saved signatures")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: signpad [flags] [signpad://host:port]\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEvery flag can also be set as %s_<FLAG>, e.g. %s_PORT=9000\n", EnvPrefix, EnvPrefix)
	}
	return fs
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New("width and height must be positive")
	}
	if !hexColor.MatchString(c.Ink) {
		return fmt.Errorf("ink %q is not a #rgb or #rrggbb colour", c.Ink)
	}
	if c.InkWidth <= 0 {
		return errors.New("ink width must be positive")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel onto slog.
func (c *Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
