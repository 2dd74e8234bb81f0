package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, env(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(
		[]string{"-addr", ":8080", "-ai-delay", "1s", "-board-size", "640"},
		env(map[string]string{
			"CHESS_ORIGINS":  "http://a.test, http://b.test ,",
			"CHESS_AI_DELAY": "250ms",
			"CHESS_DEV":      "false",
			"CHESS_DATA_DIR": "/tmp/chess",
		}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Addr:           ":8080",
		AllowedOrigins: []string{"http://a.test", "http://b.test"},
		OpponentDelay:  250 * time.Millisecond,
		DataDir:        "/tmp/chess",
		Development:    false,
		Theme:          Theme{LightColor: "#ffffff", DarkColor: "#000000", BoardSize: 640},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad delay env", nil, map[string]string{"CHESS_AI_DELAY": "soon"}},
		{"bad dev env", nil, map[string]string{"CHESS_DEV": "maybe"}},
		{"negative delay", []string{"-ai-delay", "-1s"}, nil},
		{"zero board", []string{"-board-size", "0"}, nil},
		{"unknown flag", []string{"-nope"}, nil},
		{"wildcard origin flag", []string{"-origins", "*"}, nil},
		{"wildcard origin env", nil, map[string]string{"CHESS_ORIGINS": "http://localhost:5173, *"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, env(tt.env))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
