package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)

	var m dto.Metric
	require.NoError(t, metric.(prometheus.Metric).Write(&m))
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	observer, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)

	var m dto.Metric
	require.NoError(t, observer.(prometheus.Metric).Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	require.NotNil(t, m)
	assert.Len(t, m.Collectors(), 3)
}

func TestMetrics_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		m := NewMetrics()
		reg := prometheus.NewRegistry()
		require.NoError(t, m.Register(reg))

		m.IncRequests(OperationRankPeptides, StatusSuccess)
		m.ObserveDuration(OperationRankPeptides, 0.002)
		m.IncErrors(OperationRankPeptides, ErrorTypeInvalidAttribute)

		families, err := reg.Gather()
		require.NoError(t, err)

		names := map[string]bool{}
		for _, family := range families {
			names[family.GetName()] = true
		}
		assert.True(t, names[MetricRankRequestsTotal])
		assert.True(t, names[MetricRankDuration])
		assert.True(t, names[MetricRankErrorsTotal])
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		require.NoError(t, NewMetrics().Register(reg))
		assert.Error(t, NewMetrics().Register(reg))
	})
}

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()
	start := time.Now().Add(-10 * time.Millisecond)

	m.Observe(OperationRankEpitopes, start, "")
	m.Observe(OperationRankEpitopes, start, ErrorTypeInvalidAttribute)
	m.Observe(OperationRankEpitopes, start, ErrorTypeInvalidAttribute)

	assert.Equal(t, 1.0, counterValue(t, m.requestsTotal, OperationRankEpitopes, StatusSuccess))
	assert.Equal(t, 2.0, counterValue(t, m.requestsTotal, OperationRankEpitopes, StatusFailure))
	assert.Equal(t, 2.0, counterValue(t, m.errorsTotal, OperationRankEpitopes, ErrorTypeInvalidAttribute))
	assert.Equal(t, uint64(3), histogramCount(t, m.requestDuration, OperationRankEpitopes))
}

func TestMetrics_ConcurrentAccess(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Observe(OperationOverlapping, time.Now(), "")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50.0, counterValue(t, m.requestsTotal, OperationOverlapping, StatusSuccess))
}
