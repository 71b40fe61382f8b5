package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/datasim/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	appMetrics.RecordsWritten.Add(3)
	appMetrics.OutputErrors.WithLabelValues(metrics.StageOpen).Inc()

	assert.InDelta(t, 3, testutil.ToFloat64(appMetrics.RecordsWritten), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.OutputErrors.WithLabelValues(metrics.StageOpen)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(appMetrics.RecordsWritten))
}

func TestNewMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg)

	assert.Panics(t, func() {
		metrics.NewMetrics(reg)
	})
}

func TestWriteTextfile(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")

	t.Run("success", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		appMetrics := metrics.NewMetrics(reg)
		appMetrics.RecordsWritten.Add(10000)
		path := filepath.Join(dir, "datasim.prom")

		err := metrics.WriteTextfile(path, reg)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "datasim_records_written_total 10000")
	})

	t.Run("error - missing directory", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		metrics.NewMetrics(reg)

		err := metrics.WriteTextfile(filepath.Join(dir, "missing", "datasim.prom"), reg)

		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to write metrics textfile")
	})
}
