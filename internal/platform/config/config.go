package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	dErrors "tcubridge/pkg/domain-errors"
	"tcubridge/pkg/platform/privacy"
	liststr "tcubridge/pkg/platform/strings"
)

// Config is read once at startup and handed to constructors by value. Nothing
// mutates it afterwards.
type Config struct {
	Authority Authority
	Log       Log
	Sinks     Sinks
	Redis     Redis
	Mock      Mock
}

// Authority describes the remote admissions API and how to call it.
type Authority struct {
	BaseURL      string
	Username     string
	SessionToken privacy.Secret
	Timeout      time.Duration
	// RetryAttempts is the total number of transport invocations per call.
	RetryAttempts int
	RetryDelay    time.Duration
}

type Log struct {
	Level  string
	Format string
}

// Sinks selects where call records go. Empty values disable a sink.
type Sinks struct {
	PostgresDSN      privacy.Secret
	KafkaBrokers     []string
	KafkaTopic       string
	MemoryLimit      int
	BreakerThreshold int
	BreakerCooldown  time.Duration
	WriteTimeout     time.Duration
}

// Redis configures the stream sink connection.
type Redis struct {
	URL          string
	Stream       string
	MaxLen       int64
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Mock configures the local stub authority.
type Mock struct {
	Addr         string
	SessionToken privacy.Secret
}

// Default returns a configuration suitable for local development against the
// mock authority.
func Default() Config {
	return Config{
		Authority: Authority{
			BaseURL:       "http://localhost:8089",
			Timeout:       30 * time.Second,
			RetryAttempts: 3,
			RetryDelay:    2 * time.Second,
		},
		Log: Log{Level: "info", Format: "json"},
		Sinks: Sinks{
			KafkaTopic:       "tcubridge.calls",
			MemoryLimit:      10_000,
			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
			WriteTimeout:     2 * time.Second,
		},
		Redis: Redis{
			Stream:       "tcubridge:calls",
			MaxLen:       100_000,
			PoolSize:     10,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Mock: Mock{Addr: ":8089"},
	}
}

// FromEnv overlays TCU_* environment variables on Default.
func FromEnv() (Config, error) {
	return ApplyEnv(Default())
}

// ApplyEnv overlays TCU_* environment variables on cfg.
func ApplyEnv(cfg Config) (Config, error) {
	env := envReader{}

	env.str("TCU_BASE_URL", &cfg.Authority.BaseURL)
	env.str("TCU_USERNAME", &cfg.Authority.Username)
	env.secret("TCU_SESSION_TOKEN", &cfg.Authority.SessionToken)
	env.duration("TCU_TIMEOUT", &cfg.Authority.Timeout)
	env.integer("TCU_RETRY_ATTEMPTS", &cfg.Authority.RetryAttempts)
	env.duration("TCU_RETRY_DELAY", &cfg.Authority.RetryDelay)

	env.str("TCU_LOG_LEVEL", &cfg.Log.Level)
	env.str("TCU_LOG_FORMAT", &cfg.Log.Format)

	env.secret("TCU_POSTGRES_DSN", &cfg.Sinks.PostgresDSN)
	env.list("TCU_KAFKA_BROKERS", &cfg.Sinks.KafkaBrokers)
	env.str("TCU_KAFKA_TOPIC", &cfg.Sinks.KafkaTopic)
	env.integer("TCU_MEMORY_LIMIT", &cfg.Sinks.MemoryLimit)
	env.integer("TCU_SINK_BREAKER_THRESHOLD", &cfg.Sinks.BreakerThreshold)
	env.duration("TCU_SINK_BREAKER_COOLDOWN", &cfg.Sinks.BreakerCooldown)
	env.duration("TCU_SINK_WRITE_TIMEOUT", &cfg.Sinks.WriteTimeout)

	env.str("TCU_REDIS_URL", &cfg.Redis.URL)
	env.str("TCU_REDIS_STREAM", &cfg.Redis.Stream)

	env.str("TCU_MOCK_ADDR", &cfg.Mock.Addr)
	env.secret("TCU_MOCK_SESSION_TOKEN", &cfg.Mock.SessionToken)

	if env.err != nil {
		return Config{}, env.err
	}
	return cfg, nil
}

// Load reads path (when set), then applies the environment, then validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path, cfg); err != nil {
			return Config{}, err
		}
	}
	cfg, err := ApplyEnv(cfg)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks ranges. Credentials are checked separately by
// Authority.Validate, since commands that never call the authority do not
// need them.
func (c Config) Validate() error {
	switch {
	case c.Authority.RetryAttempts < 1:
		return dErrors.New(dErrors.CodeInvalidInput, "retry attempts must be at least 1")
	case c.Authority.RetryDelay < 0:
		return dErrors.New(dErrors.CodeInvalidInput, "retry delay must not be negative")
	case c.Authority.Timeout <= 0:
		return dErrors.New(dErrors.CodeInvalidInput, "timeout must be positive")
	case !logLevels[strings.ToLower(c.Log.Level)]:
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown log level %q", c.Log.Level))
	case c.Log.Format != "json" && c.Log.Format != "text":
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown log format %q", c.Log.Format))
	case len(c.Sinks.KafkaBrokers) > 0 && c.Sinks.KafkaTopic == "":
		return dErrors.New(dErrors.CodeInvalidInput, "kafka brokers set without a topic")
	case c.Sinks.BreakerThreshold < 1:
		return dErrors.New(dErrors.CodeInvalidInput, "sink breaker threshold must be at least 1")
	}
	return nil
}

// Validate checks what a live call needs.
func (a Authority) Validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "authority base URL must be an absolute http(s) URL")
	}
	if a.Username == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "authority username is required")
	}
	if a.SessionToken.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "authority session token is required")
	}
	return nil
}

type envReader struct {
	err error
}

func (r *envReader) str(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func (r *envReader) secret(key string, dst *privacy.Secret) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = privacy.NewSecret(strings.TrimSpace(v))
	}
}

func (r *envReader) list(key string, dst *[]string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = liststr.SplitList(v)
	}
}

func (r *envReader) integer(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok || r.err != nil {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.err = dErrors.Wrap(err, dErrors.CodeInvalidInput, "parse "+key)
		return
	}
	*dst = n
}

func (r *envReader) duration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || r.err != nil {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		r.err = dErrors.Wrap(err, dErrors.CodeInvalidInput, "parse "+key)
		return
	}
	*dst = d
}
