package network

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"index-dashboard/src/helpers"
	"index-dashboard/src/logger"
	"index-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(retries int) *AsyncNetworkManager {
	cfg := &models.MConfig{Network: models.MNetworkConfig{
		MaxRetries:         retries,
		ConcurrentRequests: 4,
		UserAgent:          "dashboard-test",
	}}
	log := logger.NewLogger(nil, "test")
	log.SetOutput(io.Discard)
	return NewAsyncNetworkManager(cfg, log)
}

func TestGet_SendsParamsAndUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dashboard-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "ytd", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newManager(0).Get(context.Background(), srv.URL+"/chart/AAPL", map[string]string{"range": "ytd", "interval": "1d"})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestGet_NoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newManager(0).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)

	var netErr *helpers.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newManager(3).Get(ctx, srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
