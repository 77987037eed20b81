package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 1. Groupe Kafka : messages du topic catalogue
	KafkaMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "kafka",
		Name:      "messages_received_total",
		Help:      "Messages reçus du topic catalogue",
	}, []string{"status"}) // success (traité) / error (JSON invalide, rejet validation)

	// 2.1 Groupe Database : opérations sur le catalogue
	DbOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "db",
		Name:      "operations_total",
		Help:      "Statistiques des opérations sur la base",
	}, []string{"operation", "status"})

	// 2.2 Histogramme des durées BD
	DbDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "db",
		Name:      "operation_duration_seconds",
		Help:      "Durée des opérations sur la base",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"}) // "save" ou "get"

	// 3.1 Taille du cache produits
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "storefront",
		Subsystem: "cache",
		Name:      "items_count",
		Help:      "Nombre de produits actuellement en mémoire",
	})

	// 3.2 Taux de présence dans le cache
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Recherches dans le cache produits",
	}, []string{"result"}) // hit / miss

	// 4.1 Résolutions du magasin le plus proche
	StoreResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "geo",
		Name:      "store_resolutions_total",
		Help:      "Résolutions du magasin le plus proche, par magasin",
	}, []string{"store"})

	// 4.2 Échecs de géolocalisation
	LocationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "geo",
		Name:      "location_errors_total",
		Help:      "Échecs de géolocalisation, par cause",
	}, []string{"cause"}) // permission_denied / unavailable / timeout / other

	// 5. Requêtes HTTP
	RequestMetrics = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  "storefront",
		Subsystem:  "http",
		Name:       "request",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"status"})
)

func ObserveRequest(t time.Duration, status int) {
	RequestMetrics.WithLabelValues(strconv.Itoa(status)).Observe(t.Seconds())
}
