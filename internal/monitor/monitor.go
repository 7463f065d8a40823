package monitor

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WalletMetrics holds the wallet's prometheus metrics.
// Methods are safe to call on a nil receiver so packages can record
// unconditionally, including in tests that never call Init.
type WalletMetrics struct {
	UnlockTotal      *prometheus.CounterVec
	PriceFetchTotal  *prometheus.CounterVec
	TransferTotal    *prometheus.CounterVec
	TransferDuration *prometheus.HistogramVec
	NetworkSwitches  *prometheus.CounterVec
	PollDuration     *prometheus.HistogramVec
}

// Global Metrics Instance
var Wallet *WalletMetrics

var initOnce sync.Once

// InitWalletMetrics registers the metrics with the default registry.
func InitWalletMetrics() {
	initOnce.Do(func() {
		Wallet = &WalletMetrics{
			UnlockTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_unlock_total",
				Help: "Unlock attempts by result",
			}, []string{"result"}),
			PriceFetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_price_fetch_total",
				Help: "Price feed requests by network and result",
			}, []string{"network", "result"}),
			TransferTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_transfer_total",
				Help: "Finished transfer attempts by network and result",
			}, []string{"network", "result"}),
			TransferDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "wallet_transfer_duration_seconds",
				Help:    "Time from submit to terminal stage",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			}, []string{"network"}),
			NetworkSwitches: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_network_switch_total",
				Help: "Network switches by target network",
			}, []string{"network"}),
			PollDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "wallet_poll_task_duration_seconds",
				Help:    "Duration of background refresh tasks",
				Buckets: prometheus.DefBuckets,
			}, []string{"task"}),
		}
	})
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func (m *WalletMetrics) Unlock(ok bool) {
	if m == nil {
		return
	}
	m.UnlockTotal.WithLabelValues(result(ok)).Inc()
}

func (m *WalletMetrics) PriceFetch(network string, ok bool) {
	if m == nil {
		return
	}
	m.PriceFetchTotal.WithLabelValues(network, result(ok)).Inc()
}

// Transfer records a finished attempt. outcome is success, reverted or failed.
func (m *WalletMetrics) Transfer(network, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.TransferTotal.WithLabelValues(network, outcome).Inc()
	m.TransferDuration.WithLabelValues(network).Observe(took.Seconds())
}

func (m *WalletMetrics) NetworkSwitch(network string) {
	if m == nil {
		return
	}
	m.NetworkSwitches.WithLabelValues(network).Inc()
}

func (m *WalletMetrics) Poll(task string, took time.Duration) {
	if m == nil {
		return
	}
	m.PollDuration.WithLabelValues(task).Observe(took.Seconds())
}
