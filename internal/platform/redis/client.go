// Package redis connects the Redis instance that carries the call-record
// stream.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/redis/go-redis/v9"

	"tcubridge/internal/platform/config"
	dErrors "tcubridge/pkg/domain-errors"
	"tcubridge/pkg/platform/privacy"
)

// Client is a connected go-redis client. Addr is safe to log; the URL it came
// from may carry a password and is not kept.
type Client struct {
	*redis.Client
	Addr string
}

// New connects to cfg.URL and pings it. It returns nil, nil when no URL is
// configured so callers can treat the stream as optional.
func New(ctx context.Context, cfg config.Redis) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	password := urlPassword(cfg.URL)

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, dErrors.Wrap(errors.New(privacy.Redact(err.Error(), password)), dErrors.CodeInvalidInput, "parse redis URL")
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		cause := errors.New(privacy.Redact(err.Error(), password))
		return nil, dErrors.Wrap(cause, dErrors.CodeUnavailable, fmt.Sprintf("redis ping %s failed", opts.Addr))
	}
	return &Client{Client: client, Addr: opts.Addr}, nil
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "redis health check")
	}
	return nil
}

func urlPassword(raw string) privacy.Secret {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return privacy.Secret{}
	}
	p, _ := u.User.Password()
	return privacy.NewSecret(p)
}
