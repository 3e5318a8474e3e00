package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakewatch/quakewatch/internal/api/server"
	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/tracker"
	"github.com/quakewatch/quakewatch/internal/types"
)

type fixedState struct {
	snapshot tracker.Snapshot
}

func (f fixedState) Snapshot() tracker.Snapshot {
	return f.snapshot
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics := tracker.NewMetrics(reg)
	metrics.Sweeps.Inc()

	state := fixedState{snapshot: tracker.Snapshot{
		Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Events: []tracker.EventSummary{{
			EventID:           "E1",
			PreferredOriginID: "O1",
			OriginResolved:    true,
			Depth:             types.Float64Ptr(30),
		}},
		Records: map[domain.Kind]int{domain.KindOrigin: 1},
	}}

	return server.New(server.Config{}, state, reg).Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	w := get(t, newTestServer(t), "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	w := get(t, newTestServer(t), "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "quakewatch_tracker_sweeps_total 1"))
}

func TestServer_Events(t *testing.T) {
	w := get(t, newTestServer(t), "/events")
	require.Equal(t, http.StatusOK, w.Code)

	var snap tracker.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "E1", snap.Events[0].EventID)
	assert.Equal(t, 1, snap.Records[domain.KindOrigin])
}

func TestServer_Event(t *testing.T) {
	h := newTestServer(t)

	w := get(t, h, "/events/E1")
	require.Equal(t, http.StatusOK, w.Code)
	var evt tracker.EventSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &evt))
	assert.Equal(t, "O1", evt.PreferredOriginID)
	require.NotNil(t, evt.Depth)
	assert.Equal(t, 30.0, *evt.Depth)

	w = get(t, h, "/events/E404")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 0}, fixedState{}, prometheus.NewRegistry())

	require.NoError(t, srv.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		_ = srv.Shutdown(context.Background())
		t.Fatal("Start kept serving after Shutdown")
	}
}

func TestServer_StartStopsOnShutdown(t *testing.T) {
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 0}, fixedState{}, prometheus.NewRegistry())

	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	// Shutdown may win the race against ListenAndServe; both orders must end Start
	require.Eventually(t, func() bool {
		_ = srv.Shutdown(context.Background())
		select {
		case err := <-done:
			assert.NoError(t, err)
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
}
