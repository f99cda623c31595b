package pair

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes per-pair operational counters and gauges. A single set
// is registered on the default prometheus registry and shared by every
// pair; series are separated by the pair-address label.
type Metrics struct {
	SwapsTotal            *prometheus.CounterVec
	SwapFailuresTotal     *prometheus.CounterVec
	LiquidityEventsTotal  *prometheus.CounterVec
	FlashSwapsTotal       *prometheus.CounterVec
	ReentrancyRejections  *prometheus.CounterVec
	InvariantViolations   *prometheus.CounterVec
	ReserveGauge          *prometheus.GaugeVec
	LPSupplyGauge         *prometheus.GaugeVec
	AccumulatedFeeGauge   *prometheus.GaugeVec
	OracleUpdatesTotal    *prometheus.CounterVec
	FeeCollectionsTotal   *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metricsInst *Metrics
)

// SharedMetrics returns the process-wide pair metric set, registering it
// on first use.
func SharedMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInst = &Metrics{
			SwapsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "swaps_total",
				Help:      "Completed swaps per pair.",
			}, []string{"pair"}),
			SwapFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "swap_failures_total",
				Help:      "Rejected swaps per pair and reason.",
			}, []string{"pair", "reason"}),
			LiquidityEventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "liquidity_events_total",
				Help:      "Mint and burn operations per pair.",
			}, []string{"pair", "action"}),
			FlashSwapsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "flash_swaps_total",
				Help:      "Swaps that invoked the flash callback.",
			}, []string{"pair", "outcome"}),
			ReentrancyRejections: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "reentrancy_rejections_total",
				Help:      "Operations rejected by the per-pair lock.",
			}, []string{"pair", "operation"}),
			InvariantViolations: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "invariant_violations_total",
				Help:      "Constant-product check failures per pair.",
			}, []string{"pair"}),
			ReserveGauge: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "reserve",
				Help:      "Current reserve per pair and token side.",
			}, []string{"pair", "side"}),
			LPSupplyGauge: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "lp_supply",
				Help:      "Outstanding liquidity token supply per pair.",
			}, []string{"pair"}),
			AccumulatedFeeGauge: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "accumulated_fees",
				Help:      "Protocol fees awaiting collection per pair and side.",
			}, []string{"pair", "side"}),
			OracleUpdatesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "oracle_updates_total",
				Help:      "Price accumulator advances per pair.",
			}, []string{"pair"}),
			FeeCollectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ponder",
				Subsystem: "dex",
				Name:      "fee_collections_total",
				Help:      "Protocol fee withdrawals per pair.",
			}, []string{"pair"}),
		}
	})
	return metricsInst
}
