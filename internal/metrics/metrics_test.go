package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestCollectorTracksDialogsAndTransactions(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.DialogOpened()
	c.DialogOpened()
	c.DialogClosed()
	assert.Equal(t, float64(1), gaugeValue(t, c.DialogsActive))

	c.TransactionOpened()
	c.TransactionClosed()
	assert.Equal(t, float64(0), gaugeValue(t, c.TransactionsActive))
}

func TestCollectorCountsMessagesByDirection(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.MessageParsed("in")
	c.MessageParsed("in")
	c.MessageParsed("out")

	var m dto.Metric
	require.NoError(t, c.MessagesParsed.WithLabelValues("in").Write(&m))
	assert.Equal(t, float64(2), m.GetCounter().GetValue())
}

func TestNilCollectorIsANoOp(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.DialogOpened()
		c.DialogClosed()
		c.TransactionOpened()
		c.TransactionClosed()
		c.MessageParsed("in")
		c.ChallengeComputed()
	})
}
