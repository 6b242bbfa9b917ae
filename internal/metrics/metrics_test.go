package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyLoadCounterVecReturnsSameInstance(t *testing.T) {
	Reset()
	a := LazyLoadCounterVec("test_counter", []string{"kind"})
	b := LazyLoadCounterVec("test_counter", []string{"kind"})
	assert.Same(t, a, b)
}

func TestLazyLoadGaugeVecSetIsObservable(t *testing.T) {
	Reset()
	g := LazyLoadGaugeVec("test_gauge", []string{"kind"})
	g.WithLabelValues("memory").Set(3)

	families, err := Registry().Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() == "drop_test_gauge" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLazyLoadHistogramVecReturnsSameInstance(t *testing.T) {
	Reset()
	a := LazyLoadHistogramVec("test_hist", []string{"route"}, []float64{0.1, 0.5, 1})
	b := LazyLoadHistogramVec("test_hist", []string{"route"}, nil)
	assert.Same(t, a, b)
}
