package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pageLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posters_page_loads_total",
		Help: "Page loads by outcome",
	}, []string{"outcome"}) // "ok", "end", "error", "cancelled"

	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "posters_page_load_duration_seconds",
		Help:    "Time spent fetching one page, including client retries",
		Buckets: prometheus.DefBuckets,
	})

	loadedItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "posters_loaded_wallpapers",
		Help: "Wallpapers currently held by the pager",
	})

	deepLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posters_deep_links_total",
		Help: "Deep-link resolutions by outcome",
	}, []string{"outcome"})
)
