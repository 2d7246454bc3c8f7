package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPass(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	c.RecordPass(5, 3, 2*time.Millisecond)
	c.RecordPass(4, 2, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.PassesTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 9.0, testutil.ToFloat64(c.NeuronsEvaluatedTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.LastPassLevels))
	assert.Equal(t, 1, testutil.CollectAndCount(c.PassDurationSeconds))
}

func TestRecordFailure(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)

	c.RecordFailure(ResultStructural)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PassesTotal.WithLabelValues(ResultStructural)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.PassesTotal.WithLabelValues(ResultSuccess)))
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)
	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordPass(1, 1, time.Second)
		c.RecordFailure(ResultCanceled)
	})
}
