package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/todoapi/internal/server/metrics"
)

func TestAuthRejectionsTotal(t *testing.T) {
	c := metrics.AuthRejectionsTotal.WithLabelValues("metrics_test")
	before := testutil.ToFloat64(c)

	c.Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestLoginsTotal(t *testing.T) {
	tests := []struct {
		name   string
		result string
	}{
		{name: "success", result: "success"},
		{name: "failure", result: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := metrics.LoginsTotal.WithLabelValues(tt.result)
			before := testutil.ToFloat64(c)
			c.Inc()
			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}
