// Package testutil provides helpers shared by handler, transport and
// end-to-end tests.
package testutil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// QuietLogger discards everything. Tests that assert on log output build their
// own logger over a buffer instead.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewXMLRequest creates a POST request carrying an XML body.
func NewXMLRequest(t *testing.T, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	return req
}

// DoRequest executes a request against a handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// XMLResponder answers every request with status and body, counting calls.
// It stands in for the authority in transport tests.
type XMLResponder struct {
	Status int
	Body   string
	Calls  int
	// LastBody is the most recent request body.
	LastBody string
}

func (x *XMLResponder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	x.Calls++
	raw, _ := io.ReadAll(r.Body)
	x.LastBody = string(raw)
	w.Header().Set("Content-Type", "application/xml")
	status := x.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, x.Body)
}

// ReadBody reads and closes a response body, failing the test on error.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	return string(raw)
}
