package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockChat serves /v1/chat the way the ai-service does, replying with
// output for every request after the first fail ones.
func mockChat(t *testing.T, fail int32, status int, output string) (*httptest.Server, *int32, *chatRequest) {
	var calls int32
	var last chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &last)

		if atomic.AddInt32(&calls, 1) <= fail {
			w.WriteHeader(status)
			return
		}
		b, _ := json.Marshal(chatResponse{Agent: "mock", Output: output})
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, &last
}

func TestServiceClient_GenerateJSON(t *testing.T) {
	srv, calls, last := mockChat(t, 0, 0, "```json\n{\"improvedText\":\"Better\"}\n```")
	c := NewServiceClient(srv.URL+"/", time.Second, 3, WithLogger(zap.NewNop(), 100))

	out, err := c.GenerateJSON(context.Background(), "improve this")
	require.NoError(t, err)
	assert.JSONEq(t, `{"improvedText":"Better"}`, out)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "auto", last.Agent)
	assert.Equal(t, "improve this", last.Input)
}

func TestServiceClient_RetriesServerErrors(t *testing.T) {
	noSleep(t)
	srv, calls, _ := mockChat(t, 2, http.StatusBadGateway, `{"ok":true}`)
	c := NewServiceClient(srv.URL, time.Second, 3)

	out, err := c.GenerateJSON(context.Background(), "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, out)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestServiceClient_DoesNotRetryClientErrors(t *testing.T) {
	noSleep(t)
	srv, calls, _ := mockChat(t, 5, http.StatusBadRequest, `{}`)
	c := NewServiceClient(srv.URL, time.Second, 3)

	_, err := c.GenerateJSON(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestServiceClient_GivesUpAfterAttempts(t *testing.T) {
	noSleep(t)
	srv, calls, _ := mockChat(t, 10, http.StatusServiceUnavailable, `{}`)
	c := NewServiceClient(srv.URL, time.Second, 2)

	_, err := c.GenerateJSON(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestServiceClient_NonJSONOutput(t *testing.T) {
	srv, _, _ := mockChat(t, 0, 0, "I'd rather not.")
	c := NewServiceClient(srv.URL, time.Second, 1)

	_, err := c.GenerateJSON(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestServiceClient_Unreachable(t *testing.T) {
	noSleep(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewServiceClient(url, time.Second, 2)
	_, err := c.GenerateJSON(context.Background(), "p")
	assert.Error(t, err)
}
