package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tcubridge/pkg/domain-errors"
	"tcubridge/pkg/platform/privacy"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TCU_BASE_URL", "https://api.example.test/v1")
	t.Setenv("TCU_USERNAME", "UDSM")
	t.Setenv("TCU_SESSION_TOKEN", "tok-123")
	t.Setenv("TCU_RETRY_ATTEMPTS", "5")
	t.Setenv("TCU_RETRY_DELAY", "250ms")
	t.Setenv("TCU_KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test/v1", cfg.Authority.BaseURL)
	assert.Equal(t, "tok-123", cfg.Authority.SessionToken.Reveal())
	assert.Equal(t, 5, cfg.Authority.RetryAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Authority.RetryDelay)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Sinks.KafkaBrokers)
	assert.NoError(t, cfg.Authority.Validate())
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("TCU_RETRY_ATTEMPTS", "three")
	_, err := FromEnv()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	t.Setenv("TCU_RETRY_ATTEMPTS", "3")
	t.Setenv("TCU_TIMEOUT", "soon")
	_, err = FromEnv()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "tcubridge.toml", `
[authority]
base_url = "https://api.example.test"
username = "UDSM"
session_token = "tok-file"
retry_attempts = 4
retry_delay = "1s"

[sinks]
kafka_brokers = ["localhost:9092"]
breaker_cooldown = "10s"
`)
	cfg, err := LoadFile(path, Default())
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", cfg.Authority.BaseURL)
	assert.Equal(t, 4, cfg.Authority.RetryAttempts)
	assert.Equal(t, time.Second, cfg.Authority.RetryDelay)
	assert.Equal(t, 30*time.Second, cfg.Authority.Timeout, "absent keys keep the base value")
	assert.Equal(t, []string{"localhost:9092"}, cfg.Sinks.KafkaBrokers)
	assert.Equal(t, 10*time.Second, cfg.Sinks.BreakerCooldown)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "tcubridge.yaml", `
authority:
  username: UDSM
  session_token: tok-yaml
  timeout: 5s
log:
  level: debug
  format: text
redis:
  url: redis://localhost:6379/0
`)
	cfg, err := LoadFile(path, Default())
	require.NoError(t, err)

	assert.Equal(t, "UDSM", cfg.Authority.Username)
	assert.Equal(t, 5*time.Second, cfg.Authority.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "tcubridge:calls", cfg.Redis.Stream)
}

func TestLoadFileRejects(t *testing.T) {
	cases := map[string]string{
		"unknown toml key.toml":  "[authority]\nbase_uri = \"x\"\n",
		"unknown yaml key.yaml":  "authority:\n  base_uri: x\n",
		"bad duration.toml":      "[authority]\nretry_delay = \"fast\"\n",
		"unsupported format.ini": "x=1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, name, body), Default())
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), err)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"), Default())
	assert.Error(t, err)
}

func TestLoadAppliesEnvOverFile(t *testing.T) {
	path := writeFile(t, "tcubridge.toml", "[authority]\nusername = \"from-file\"\n")
	t.Setenv("TCU_USERNAME", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Authority.Username)
}

func TestValidate(t *testing.T) {
	mutate := map[string]func(*Config){
		"zero attempts":     func(c *Config) { c.Authority.RetryAttempts = 0 },
		"negative delay":    func(c *Config) { c.Authority.RetryDelay = -time.Second },
		"zero timeout":      func(c *Config) { c.Authority.Timeout = 0 },
		"unknown level":     func(c *Config) { c.Log.Level = "loud" },
		"unknown format":    func(c *Config) { c.Log.Format = "xml" },
		"brokers w/o topic": func(c *Config) { c.Sinks.KafkaBrokers, c.Sinks.KafkaTopic = []string{"k:9092"}, "" },
		"breaker threshold": func(c *Config) { c.Sinks.BreakerThreshold = 0 },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			fn(&cfg)
			assert.True(t, dErrors.HasCode(cfg.Validate(), dErrors.CodeInvalidInput))
		})
	}
}

func TestAuthorityValidate(t *testing.T) {
	ok := Authority{BaseURL: "https://api.example.test", Username: "UDSM", SessionToken: privacy.NewSecret("t")}
	require.NoError(t, ok.Validate())

	noURL := ok
	noURL.BaseURL = "api.example.test"
	assert.Error(t, noURL.Validate())

	noUser := ok
	noUser.Username = ""
	assert.Error(t, noUser.Validate())

	noToken := ok
	noToken.SessionToken = privacy.Secret{}
	assert.Error(t, noToken.Validate())
}
