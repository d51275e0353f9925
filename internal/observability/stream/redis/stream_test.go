package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"tcubridge/internal/observability"
	"tcubridge/pkg/platform/sentinel"
)

func TestRecordUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	err := New(client, "calls").Record(context.Background(), observability.NewCallRecord("applicants.checkStatus", "applicants", time.Now()))
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
