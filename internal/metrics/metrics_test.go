package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStage(t *testing.T) {
	m := New("5")

	m.ObserveStage("upload_image", 120*time.Millisecond, nil)
	m.ObserveStage("deploy", time.Second, errors.New("reverted"))
	m.ObserveStage("deploy", time.Second, errors.New("reverted"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Workflow.StageFailures.WithLabelValues("deploy")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Workflow.StageFailures.WithLabelValues("upload_image")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Workflow.StageDuration))
}

func TestObserveRun(t *testing.T) {
	m := New("")

	m.ObserveRun(nil)
	m.ObserveRun(errors.New("failed"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Workflow.RunsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Workflow.RunsTotal.WithLabelValues(StatusFailure)))
	assert.Greater(t, testutil.ToFloat64(m.Workflow.LastSuccess), float64(0))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveStage("deploy", time.Second, nil)
	m.ObserveRun(nil)
	assert.NoError(t, m.Push(context.Background(), Config{PushgatewayURL: "http://unused"}))
}

func TestPush(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/metrics/job/mintflow", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New("5")
	m.ObserveStage("mint", time.Second, nil)

	require.NoError(t, m.Push(context.Background(), Config{PushgatewayURL: srv.URL}))
	assert.Contains(t, body, "mintflow_stage_duration_seconds")

	// without a url nothing is sent
	assert.NoError(t, m.Push(context.Background(), Config{}))
}
