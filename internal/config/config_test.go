package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"

	"wordduel/internal/domain"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Game.WordLength != 5 || cfg.Game.RoomCodeLength != 6 {
		t.Errorf("game = %+v", cfg.Game)
	}
	if cfg.Game.RoomIdleTimeout != 30*time.Minute {
		t.Errorf("idle timeout = %s, want 30m", cfg.Game.RoomIdleTimeout)
	}
	if cfg.Limits.MessageRate != 10 || cfg.Limits.MessageBurst != 20 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("default env should be development")
	}
	if got := cfg.GetAddr(); got != "0.0.0.0:8080" {
		t.Errorf("GetAddr() = %q", got)
	}
	if got := cfg.GameSettings(); got != domain.DefaultSettings() {
		t.Errorf("GameSettings() = %+v, want defaults", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WORD_LENGTH", "6")
	t.Setenv("FEEDBACK_MODE", "manual")
	t.Setenv("ROOM_IDLE_TIMEOUT", "5m")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Game.RoomIdleTimeout != 5*time.Minute {
		t.Errorf("idle timeout = %s, want 5m", cfg.Game.RoomIdleTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	want := domain.Settings{WordLength: 6, Feedback: domain.FeedbackManual}
	if got := cfg.GameSettings(); got != want {
		t.Errorf("GameSettings() = %+v, want %+v", got, want)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := Load(newFlags(t, "--port", "7070", "--word_length", "4"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Game.WordLength != 4 {
		t.Errorf("word length = %d, want 4", cfg.Game.WordLength)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Host: "localhost", Port: 8080, Env: "development"},
			Game: GameConfig{
				WordLength:     5,
				FeedbackMode:   "auto",
				RoomCodeLength: 6,
			},
			Limits: LimitsConfig{MessageRate: 10, MessageBurst: 20},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero word length", func(c *Config) { c.Game.WordLength = 0 }, true},
		{"unknown feedback mode", func(c *Config) { c.Game.FeedbackMode = "psychic" }, true},
		{"short room code", func(c *Config) { c.Game.RoomCodeLength = 3 }, true},
		{"negative idle timeout", func(c *Config) { c.Game.RoomIdleTimeout = -time.Second }, true},
		{"negative rate", func(c *Config) { c.Limits.MessageRate = -1 }, true},
		{"rate limiting off", func(c *Config) { c.Limits.MessageRate = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
