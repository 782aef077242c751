package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"wordduel/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Limits  LimitsConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host    string
	Port    int
	Env     string // "development" or "production"
	Profile bool
}

// GameConfig holds game-related configuration
type GameConfig struct {
	WordLength      int
	FeedbackMode    string
	RoomCodeLength  int
	RoomIdleTimeout time.Duration
}

// LimitsConfig holds per-connection throttling
type LimitsConfig struct {
	MessageRate  float64
	MessageBurst int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// RegisterFlags defines every setting as a flag. Each flag is also read from
// the environment: --word-length ↔ WORD_LENGTH.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.String("host", "0.0.0.0", "address to bind to (env: HOST)")
	fs.IntP("port", "p", 8080, "port to listen on (env: PORT)")
	fs.String("env", "development", "development or production (env: ENV)")
	fs.Bool("profile", false, "mount pprof handlers under /debug (env: PROFILE)")

	fs.Int("word-length", 5, "letters in a secret word (env: WORD_LENGTH)")
	fs.String("feedback-mode", string(domain.FeedbackAuto), "auto or manual guess evaluation (env: FEEDBACK_MODE)")
	fs.Int("room-code-length", 6, "characters in a room code (env: ROOM_CODE_LENGTH)")
	fs.Duration("room-idle-timeout", 30*time.Minute, "close rooms idle this long, 0 disables (env: ROOM_IDLE_TIMEOUT)")

	fs.Float64("message-rate", 10, "inbound messages per second per connection, 0 disables (env: MESSAGE_RATE)")
	fs.Int("message-burst", 20, "inbound message burst per connection (env: MESSAGE_BURST)")

	fs.String("log-level", "info", "debug, info, warn or error (env: LOG_LEVEL)")
	fs.String("log-format", "text", "text or json (env: LOG_FORMAT)")
}

// Load resolves configuration from flags, environment and an optional .env
// file. Flags set on the command line win over the environment, which wins
// over defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:    v.GetString("host"),
			Port:    v.GetInt("port"),
			Env:     v.GetString("env"),
			Profile: v.GetBool("profile"),
		},
		Game: GameConfig{
			WordLength:      v.GetInt("word-length"),
			FeedbackMode:    v.GetString("feedback-mode"),
			RoomCodeLength:  v.GetInt("room-code-length"),
			RoomIdleTimeout: v.GetDuration("room-idle-timeout"),
		},
		Limits: LimitsConfig{
			MessageRate:  v.GetFloat64("message-rate"),
			MessageBurst: v.GetInt("message-burst"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("log-level")),
			Format: strings.ToLower(v.GetString("log-format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can run a server
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port))
	}
	if c.Game.WordLength < 1 {
		errs = append(errs, fmt.Errorf("word length must be at least 1: %d", c.Game.WordLength))
	}
	if _, err := domain.ParseFeedbackMode(c.Game.FeedbackMode); err != nil {
		errs = append(errs, err)
	}
	if c.Game.RoomCodeLength < 4 {
		errs = append(errs, fmt.Errorf("room code length must be at least 4: %d", c.Game.RoomCodeLength))
	}
	if c.Game.RoomIdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("room idle timeout must not be negative: %s", c.Game.RoomIdleTimeout))
	}
	if c.Limits.MessageRate < 0 || c.Limits.MessageBurst < 0 {
		errs = append(errs, errors.New("message limits must not be negative"))
	}

	return errors.Join(errs...)
}

// GameSettings returns the settings new rooms are created with
func (c *Config) GameSettings() domain.Settings {
	mode, err := domain.ParseFeedbackMode(c.Game.FeedbackMode)
	if err != nil {
		mode = domain.FeedbackAuto
	}
	return domain.Settings{
		WordLength: c.Game.WordLength,
		Feedback:   mode,
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
