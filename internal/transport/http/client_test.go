package httptransport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcubridge/internal/admissions/failure"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/ports"
	dErrors "tcubridge/pkg/domain-errors"
	"tcubridge/pkg/testutil"
)

func request(path string) ports.Request {
	return ports.Request{
		Operation: operations.ApplicantsCheckStatus,
		Path:      path,
		Body:      []byte("<Request/>"),
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8089", "ftp://example.test", "http://"} {
		_, err := New(raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), raw)
	}
}

func TestSendPostsXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/applicants/checkStatus", r.URL.Path)
		assert.Equal(t, contentTypeXML, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "<Request/>", string(body))
		_, _ = io.WriteString(w, "<Response/>")
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/api/")
	require.NoError(t, err)

	body, err := c.Send(context.Background(), request("/applicants/checkStatus"))
	require.NoError(t, err)
	assert.Equal(t, "<Response/>", string(body))
}

func TestSendClientErrorReturnsBody(t *testing.T) {
	stub := &testutil.XMLResponder{Status: http.StatusNotFound, Body: "not here"}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	body, err := c.Send(context.Background(), request("/missing"))
	require.NoError(t, err)
	assert.Equal(t, "not here", string(body))
}

func TestSendServerErrorIsRetryable(t *testing.T) {
	stub := &testutil.XMLResponder{Status: http.StatusBadGateway}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), request("/applicants/checkStatus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, 1, stub.Calls)

	var fe *failure.Error
	assert.NotErrorAs(t, err, &fe, "plain errors are retried by the dispatcher")
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL)
	require.NoError(t, err)

	req := request("/slow")
	req.Timeout = 20 * time.Millisecond
	_, err = c.Send(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 64))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithMaxBodyBytes(16))
	require.NoError(t, err)

	_, err = c.Send(context.Background(), request("/big"))
	assert.True(t, failure.Is(err, failure.KindMalformedResponse))
	assert.False(t, failure.IsRetryable(err))
}

func TestSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), request("/x"))
	require.Error(t, err)
	assert.Equal(t, failure.KindInternal, failure.KindOf(err), "unwrapped network errors carry no kind until the dispatcher assigns one")
}
