package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251124-es-conn/pkg/connection"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// TestObserver_ReportsStatus 测试每个响应都触发状态回调
func TestObserver_ReportsStatus(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	var got []connection.Status
	s, err := connection.Parse(backend.URL, "people",
		connection.WithStatusHandler(func(st connection.Status) { got = append(got, st) }),
	)
	require.NoError(t, err)

	client := NewClientPool(1).GetClient(s)
	b := NewBuilder(s)

	t.Run("正常请求", func(t *testing.T) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, b.URL("people", "order", "1").String(), nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Len(t, got, 1)
		assert.Equal(t, http.MethodGet, got[0].Method)
		assert.Equal(t, http.StatusOK, got[0].StatusCode)
		assert.True(t, got[0].Success())
		assert.Contains(t, got[0].URL, "/people/order/1")
	})

	t.Run("不同状态码", func(t *testing.T) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, b.URL("people", "order", "missing").String(), nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Len(t, got, 2)
		assert.Equal(t, http.StatusNotFound, got[1].StatusCode)
		assert.False(t, got[1].Success())
	})
}

// TestObserver_TransportError 测试传输错误
func TestObserver_TransportError(t *testing.T) {
	var got connection.Status
	s := newTestSettings(t, connection.WithStatusHandler(func(st connection.Status) { got = st }))

	boom := errors.New("connection refused")
	observer := NewObserver(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	}), s)

	req, err := http.NewRequest(http.MethodPut, "http://user:pw@localhost:9200/people/order/1", nil)
	require.NoError(t, err)

	resp, err := observer.RoundTrip(req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, got.Err, boom)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Zero(t, got.StatusCode)
	assert.NotContains(t, got.URL, "pw", "状态中的 URL 应隐藏密码")
}

// TestObserver_Trace 测试 trace 日志
func TestObserver_Trace(t *testing.T) {
	ok := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusCreated, Body: http.NoBody, Header: make(http.Header)}, nil
	})

	t.Run("启用 trace 时记录日志", func(t *testing.T) {
		var buf bytes.Buffer
		s := newTestSettings(t,
			connection.EnableTrace(true),
			connection.WithLogger(zerolog.New(&buf)),
		)

		req, err := http.NewRequest(http.MethodPost, "http://localhost:9200/people/order", nil)
		require.NoError(t, err)
		_, err = NewObserver(ok, s).RoundTrip(req)
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "debug", entry["level"])
		assert.Equal(t, "trace", entry["message"])
		assert.Equal(t, http.MethodPost, entry["method"])
		assert.EqualValues(t, http.StatusCreated, entry["status_code"])
	})

	t.Run("未启用 trace 时不记录", func(t *testing.T) {
		var buf bytes.Buffer
		s := newTestSettings(t, connection.WithLogger(zerolog.New(&buf)))

		req, err := http.NewRequest(http.MethodPost, "http://localhost:9200/people/order", nil)
		require.NoError(t, err)
		_, err = NewObserver(ok, s).RoundTrip(req)
		require.NoError(t, err)

		assert.Zero(t, buf.Len())
	})
}

// TestObserver_CloseIdleConnections 测试关闭空闲连接转发
func TestObserver_CloseIdleConnections(t *testing.T) {
	s := newTestSettings(t)

	assert.NotPanics(t, func() {
		NewObserver(nil, s).CloseIdleConnections()
		NewObserver(roundTripFunc(nil), s).CloseIdleConnections()
	})
}
