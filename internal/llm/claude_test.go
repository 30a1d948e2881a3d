// Copyright Jordan Morrow, 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorrow/gitpress/pkg/types"
)

func init() {
	retryBaseDelay = 1 * time.Millisecond
}

func withAPIURL(t *testing.T, url string) {
	t.Helper()
	old := apiURL
	apiURL = url
	t.Cleanup(func() { apiURL = old })
}

func testCfg() types.AIConfig {
	return types.AIConfig{Model: "test-model", APIKey: "k", MaxTokens: 100}
}

func TestCompleteReturnsText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("x-api-key"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 500, req.MaxTokens)

		fmt.Fprint(w, `{"content": [{"type": "text", "text": "HEADLINE: hello"}]}`)
	}))
	defer ts.Close()
	withAPIURL(t, ts.URL)

	got, err := New(testCfg()).Complete(context.Background(), "write", 500)
	require.NoError(t, err)
	assert.Equal(t, "HEADLINE: hello", got)
}

func TestCompleteRetriesTransientFailure(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "ok"}]}`)
	}))
	defer ts.Close()
	withAPIURL(t, ts.URL)

	got, err := New(testCfg()).Complete(context.Background(), "write", 100)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCompleteExhaustsBudget(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	withAPIURL(t, ts.URL)

	_, err := New(testCfg()).Complete(context.Background(), "write", 100)
	require.Error(t, err)
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&calls))
}

func TestCompleteDoesNotRetry4xx(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()
	withAPIURL(t, ts.URL)

	_, err := New(testCfg()).Complete(context.Background(), "write", 100)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
