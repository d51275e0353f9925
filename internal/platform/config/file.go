package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	dErrors "tcubridge/pkg/domain-errors"
	"tcubridge/pkg/platform/privacy"
	liststr "tcubridge/pkg/platform/strings"
)

// fileConfig mirrors Config with optional fields: a nil pointer means the key
// was absent and the base value stays.
type fileConfig struct {
	Authority struct {
		BaseURL       *string `toml:"base_url" yaml:"base_url"`
		Username      *string `toml:"username" yaml:"username"`
		SessionToken  *string `toml:"session_token" yaml:"session_token"`
		Timeout       *string `toml:"timeout" yaml:"timeout"`
		RetryAttempts *int    `toml:"retry_attempts" yaml:"retry_attempts"`
		RetryDelay    *string `toml:"retry_delay" yaml:"retry_delay"`
	} `toml:"authority" yaml:"authority"`

	Log struct {
		Level  *string `toml:"level" yaml:"level"`
		Format *string `toml:"format" yaml:"format"`
	} `toml:"log" yaml:"log"`

	Sinks struct {
		PostgresDSN      *string  `toml:"postgres_dsn" yaml:"postgres_dsn"`
		KafkaBrokers     []string `toml:"kafka_brokers" yaml:"kafka_brokers"`
		KafkaTopic       *string  `toml:"kafka_topic" yaml:"kafka_topic"`
		MemoryLimit      *int     `toml:"memory_limit" yaml:"memory_limit"`
		BreakerThreshold *int     `toml:"breaker_threshold" yaml:"breaker_threshold"`
		BreakerCooldown  *string  `toml:"breaker_cooldown" yaml:"breaker_cooldown"`
		WriteTimeout     *string  `toml:"write_timeout" yaml:"write_timeout"`
	} `toml:"sinks" yaml:"sinks"`

	Redis struct {
		URL          *string `toml:"url" yaml:"url"`
		Stream       *string `toml:"stream" yaml:"stream"`
		MaxLen       *int64  `toml:"max_len" yaml:"max_len"`
		PoolSize     *int    `toml:"pool_size" yaml:"pool_size"`
		MinIdleConns *int    `toml:"min_idle_conns" yaml:"min_idle_conns"`
		DialTimeout  *string `toml:"dial_timeout" yaml:"dial_timeout"`
		ReadTimeout  *string `toml:"read_timeout" yaml:"read_timeout"`
		WriteTimeout *string `toml:"write_timeout" yaml:"write_timeout"`
	} `toml:"redis" yaml:"redis"`

	Mock struct {
		Addr         *string `toml:"addr" yaml:"addr"`
		SessionToken *string `toml:"session_token" yaml:"session_token"`
	} `toml:"mock" yaml:"mock"`
}

// LoadFile overlays a TOML or YAML file on base. The format follows the file
// extension. Unknown keys are rejected.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "read config file")
	}

	var raw fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), &raw)
		if err != nil {
			return Config{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode toml config")
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown config key %q", undecoded[0].String()))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return Config{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode yaml config")
		}
	default:
		return Config{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unsupported config format %q", ext))
	}

	return raw.apply(base)
}

func (f fileConfig) apply(cfg Config) (Config, error) {
	var err error
	setString(f.Authority.BaseURL, &cfg.Authority.BaseURL)
	setString(f.Authority.Username, &cfg.Authority.Username)
	setSecret(f.Authority.SessionToken, &cfg.Authority.SessionToken)
	setInt(f.Authority.RetryAttempts, &cfg.Authority.RetryAttempts)
	setDuration(&err, "authority.timeout", f.Authority.Timeout, &cfg.Authority.Timeout)
	setDuration(&err, "authority.retry_delay", f.Authority.RetryDelay, &cfg.Authority.RetryDelay)

	setString(f.Log.Level, &cfg.Log.Level)
	setString(f.Log.Format, &cfg.Log.Format)

	setSecret(f.Sinks.PostgresDSN, &cfg.Sinks.PostgresDSN)
	if f.Sinks.KafkaBrokers != nil {
		cfg.Sinks.KafkaBrokers = liststr.DedupeAndTrim(f.Sinks.KafkaBrokers)
	}
	setString(f.Sinks.KafkaTopic, &cfg.Sinks.KafkaTopic)
	setInt(f.Sinks.MemoryLimit, &cfg.Sinks.MemoryLimit)
	setInt(f.Sinks.BreakerThreshold, &cfg.Sinks.BreakerThreshold)
	setDuration(&err, "sinks.breaker_cooldown", f.Sinks.BreakerCooldown, &cfg.Sinks.BreakerCooldown)
	setDuration(&err, "sinks.write_timeout", f.Sinks.WriteTimeout, &cfg.Sinks.WriteTimeout)

	setString(f.Redis.URL, &cfg.Redis.URL)
	setString(f.Redis.Stream, &cfg.Redis.Stream)
	if f.Redis.MaxLen != nil {
		cfg.Redis.MaxLen = *f.Redis.MaxLen
	}
	setInt(f.Redis.PoolSize, &cfg.Redis.PoolSize)
	setInt(f.Redis.MinIdleConns, &cfg.Redis.MinIdleConns)
	setDuration(&err, "redis.dial_timeout", f.Redis.DialTimeout, &cfg.Redis.DialTimeout)
	setDuration(&err, "redis.read_timeout", f.Redis.ReadTimeout, &cfg.Redis.ReadTimeout)
	setDuration(&err, "redis.write_timeout", f.Redis.WriteTimeout, &cfg.Redis.WriteTimeout)

	setString(f.Mock.Addr, &cfg.Mock.Addr)
	setSecret(f.Mock.SessionToken, &cfg.Mock.SessionToken)

	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setString(v *string, dst *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setSecret(v *string, dst *privacy.Secret) {
	if v != nil {
		*dst = privacy.NewSecret(strings.TrimSpace(*v))
	}
}

func setInt(v *int, dst *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(errp *error, key string, v *string, dst *time.Duration) {
	if v == nil || *errp != nil {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(*v))
	if err != nil {
		*errp = dErrors.Wrap(err, dErrors.CodeInvalidInput, "parse "+key)
		return
	}
	*dst = d
}
