// Package config holds the server settings and the board theme sent to
// clients.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Theme is the presentation configuration handed to the browser. The rules
// engine never reads it.
type Theme struct {
	LightColor string `json:"lightColor"`
	DarkColor  string `json:"darkColor"`
	BoardSize  int    `json:"boardSize"`
}

func DefaultTheme() Theme {
	return Theme{LightColor: "#ffffff", DarkColor: "#000000", BoardSize: 480}
}

type Config struct {
	Addr           string
	AllowedOrigins []string
	OpponentDelay  time.Duration
	DataDir        string
	Development    bool
	Theme          Theme
}

func Default() Config {
	return Config{
		Addr:           ":3000",
		AllowedOrigins: []string{"http://localhost:5173"},
		OpponentDelay:  500 * time.Millisecond,
		Development:    true,
		Theme:          DefaultTheme(),
	}
}

// Load reads flags from args, then lets CHESS_* environment variables
// override them.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	origins := strings.Join(cfg.AllowedOrigins, ",")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&origins, "origins", origins, "comma separated CORS origins")
	fs.DurationVar(&cfg.OpponentDelay, "ai-delay", cfg.OpponentDelay, "delay before the computer moves")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "badger directory (empty keeps results in memory)")
	fs.BoolVar(&cfg.Development, "dev", cfg.Development, "development logging")
	fs.StringVar(&cfg.Theme.LightColor, "light-color", cfg.Theme.LightColor, "light square colour")
	fs.StringVar(&cfg.Theme.DarkColor, "dark-color", cfg.Theme.DarkColor, "dark square colour")
	fs.IntVar(&cfg.Theme.BoardSize, "board-size", cfg.Theme.BoardSize, "board size in pixels")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if v := getenv("CHESS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("CHESS_ORIGINS"); v != "" {
		origins = v
	}
	if v := getenv("CHESS_AI_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CHESS_AI_DELAY: %v", ErrInvalidConfig, err)
		}
		cfg.OpponentDelay = d
	}
	if v := getenv("CHESS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("CHESS_DEV"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CHESS_DEV: %v", ErrInvalidConfig, err)
		}
		cfg.Development = dev
	}

	cfg.AllowedOrigins = splitOrigins(origins)
	for _, o := range cfg.AllowedOrigins {
		// The server sends credentialed CORS responses, which fiber refuses
		// to combine with a wildcard origin.
		if o == "*" {
			return Config{}, fmt.Errorf("%w: wildcard origin not allowed with credentials", ErrInvalidConfig)
		}
	}
	if cfg.OpponentDelay < 0 {
		return Config{}, fmt.Errorf("%w: negative opponent delay", ErrInvalidConfig)
	}
	if cfg.Theme.BoardSize <= 0 {
		return Config{}, fmt.Errorf("%w: board size must be positive", ErrInvalidConfig)
	}
	return cfg, nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
