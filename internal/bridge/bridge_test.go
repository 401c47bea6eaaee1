package bridge

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
)

func newTestBridge(handlers Handlers) (*Server, *httptest.Server) {
	s := NewServer("127.0.0.1:0", handlers)
	return s, httptest.NewServer(s.srv.Handler)
}

func TestSyncDecodesQueryParams(t *testing.T) {
	var got model.SyncUpdate
	s, ts := newTestBridge(Handlers{Sync: func(u model.SyncUpdate) { got = u }})
	defer ts.Close()

	resp, err := http.Get(ts.URL +
		"/sync?punch_in=10%3A15+AM&punch_out=--&date=2026-08-30&status=PRESENT&worked=2h+5m")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10:15 AM", got.PunchIn)
	assert.Equal(t, "--", got.PunchOut)
	assert.Equal(t, "2026-08-30", got.Date)
	assert.Equal(t, "PRESENT", got.Status)
	assert.Equal(t, "2h 5m", got.WorkedStr)
	assert.True(t, s.Connected())
}

func TestHeartbeatMarksConnected(t *testing.T) {
	s, ts := newTestBridge(Handlers{})
	defer ts.Close()

	assert.False(t, s.Connected())

	resp, err := http.Get(ts.URL + "/heartbeat")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, s.Connected())
}

func TestStartStopEndpoints(t *testing.T) {
	var started, stopped bool
	_, ts := newTestBridge(Handlers{
		Start: func() { started = true },
		Stop:  func() { stopped = true },
	})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/start")
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, started)

	resp, err = http.Get(ts.URL + "/stop")
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, stopped)
}

func TestCORSHeaders(t *testing.T) {
	_, ts := newTestBridge(Handlers{})
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/sync", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNilHandlersSafe(t *testing.T) {
	_, ts := newTestBridge(Handlers{})
	defer ts.Close()

	for _, path := range []string{"/sync", "/start", "/stop"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
