package store

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shopmate/storefront/internal/domain"
)

// Metrics exports store gauges. Register Observe with Store.Subscribe.
type Metrics struct {
	cartLines       prometheus.Gauge
	cartUnits       prometheus.Gauge
	cartValue       prometheus.Gauge
	wishlistEntries prometheus.Gauge
	mutations       prometheus.Counter

	mu          sync.Mutex
	lastVersion uint64
}

// NewMetrics registers the store collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		cartLines: f.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_cart_lines",
			Help: "Number of distinct products in the cart",
		}),
		cartUnits: f.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_cart_units",
			Help: "Sum of quantities over cart lines",
		}),
		cartValue: f.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_cart_value",
			Help: "Cart total price",
		}),
		wishlistEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_wishlist_entries",
			Help: "Number of products in the wishlist",
		}),
		mutations: f.NewCounter(prometheus.CounterOpts{
			Name: "storefront_store_mutations_total",
			Help: "Applied cart and wishlist mutations",
		}),
	}
}

// Observe updates the gauges from snap. Snapshots older than one already
// applied only count as a mutation.
func (m *Metrics) Observe(snap domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mutations.Inc()
	if snap.Version <= m.lastVersion {
		return
	}
	m.lastVersion = snap.Version

	m.cartLines.Set(float64(snap.ItemCount))
	m.cartUnits.Set(float64(snap.UnitCount))
	m.cartValue.Set(domain.TotalPrice(snap.CartItems).InexactFloat64())
	m.wishlistEntries.Set(float64(len(snap.WishlistItems)))
}
