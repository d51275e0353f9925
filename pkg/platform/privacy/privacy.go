// Package privacy keeps credentials and identifiers out of logs, errors and
// observability records.
package privacy

import (
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// Secret holds a credential. Its String, GoString and LogValue forms are
// masked; call Reveal only where the clear value goes onto the wire.
type Secret struct {
	value string
}

// NewSecret wraps a clear-text credential.
func NewSecret(v string) Secret {
	return Secret{value: v}
}

// Reveal returns the clear value.
func (s Secret) Reveal() string {
	return s.value
}

// IsZero reports whether no credential was supplied.
func (s Secret) IsZero() bool {
	return s.value == ""
}

func (s Secret) String() string {
	return MaskSecret(s.value)
}

func (s Secret) GoString() string {
	return "privacy.Secret(" + MaskSecret(s.value) + ")"
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(MaskSecret(s.value))
}

// MarshalText keeps encoders (json, yaml) from emitting the clear value.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(MaskSecret(s.value)), nil
}

// MaskSecret returns a fixed mask for any non-empty value. Length is not
// preserved.
func MaskSecret(v string) string {
	if v == "" {
		return ""
	}
	return redacted
}

// Redact replaces every occurrence of each non-empty secret in text.
func Redact(text string, secrets ...Secret) string {
	for _, s := range secrets {
		if s.value == "" {
			continue
		}
		text = strings.ReplaceAll(text, s.value, redacted)
	}
	return text
}

// MaskIdentifier keeps the first and last two characters of an identifier,
// e.g. "S1001/0012/2018" -> "S1***********18". Short values are fully masked.
func MaskIdentifier(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return v[:2] + strings.Repeat("*", len(v)-4) + v[len(v)-2:]
}
