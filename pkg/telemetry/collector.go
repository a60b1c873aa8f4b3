// Package telemetry exports dashboard KPIs, alert counts and collection
// health as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ekaya-inc/ekaya-mes/pkg/alerts"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/kpi"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

const namespace = "mes"

var alertTypes = []models.AlertType{
	models.AlertTypeError,
	models.AlertTypeWarning,
	models.AlertTypeInfo,
	models.AlertTypeSuccess,
}

// KPICollector computes the dashboard KPIs on every scrape, so the exported
// values always match what GET /api/dashboard would return.
type KPICollector struct {
	set   *collections.Set
	store *alerts.Store
	now   func() time.Time

	oee              *prometheus.Desc
	availability     *prometheus.Desc
	avgEfficiency    *prometheus.Desc
	qualityRate      *prometheus.Desc
	activeWorkOrders *prometheus.Desc
	productionRate   *prometheus.Desc
	downtime         *prometheus.Desc
	alerts           *prometheus.Desc
	collectionItems  *prometheus.Desc
	collectionLoaded *prometheus.Desc
}

var _ prometheus.Collector = (*KPICollector)(nil)

func NewKPICollector(set *collections.Set, store *alerts.Store) *KPICollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &KPICollector{
		set:   set,
		store: store,
		now:   time.Now,

		oee:              desc("oee_percent", "Overall equipment effectiveness."),
		availability:     desc("availability_percent", "Share of machines running."),
		avgEfficiency:    desc("avg_efficiency_percent", "Mean machine efficiency."),
		qualityRate:      desc("quality_rate_percent", "Share of quality checks passed."),
		activeWorkOrders: desc("active_work_orders", "Work orders not yet completed."),
		productionRate:   desc("production_rate_per_hour", "Units completed per hour over the last 24 hours."),
		downtime:         desc("downtime_percent", "Share of machines in error or maintenance."),
		alerts:           desc("alerts", "Alerts in the feed by type.", "type"),
		collectionItems:  desc("collection_items", "Records held by each in-memory collection.", "collection"),
		collectionLoaded: desc("collection_loaded", "1 when the collection's last fetch succeeded.", "collection"),
	}
}

func (c *KPICollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.oee
	ch <- c.availability
	ch <- c.avgEfficiency
	ch <- c.qualityRate
	ch <- c.activeWorkOrders
	ch <- c.productionRate
	ch <- c.downtime
	ch <- c.alerts
	ch <- c.collectionItems
	ch <- c.collectionLoaded
}

func (c *KPICollector) Collect(ch chan<- prometheus.Metric) {
	d := kpi.ComputeDashboard(c.set.Snapshot(), c.now())

	gauge := func(desc *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v, labels...)
	}
	gauge(c.oee, d.OEE)
	gauge(c.availability, d.Availability)
	gauge(c.avgEfficiency, d.AvgEfficiency)
	gauge(c.qualityRate, d.QualityRate)
	gauge(c.activeWorkOrders, float64(d.ActiveWorkOrders))
	gauge(c.productionRate, float64(d.ProductionRate))
	gauge(c.downtime, d.DowntimePercentage)

	counts := make(map[models.AlertType]int, len(alertTypes))
	for _, a := range c.store.List() {
		counts[a.Type]++
	}
	for _, t := range alertTypes {
		gauge(c.alerts, float64(counts[t]), string(t))
	}

	for name, st := range c.set.States() {
		loaded := 0.0
		if st.Loaded && st.Error == "" {
			loaded = 1
		}
		gauge(c.collectionItems, float64(st.Count), name)
		gauge(c.collectionLoaded, loaded, name)
	}
}
