package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReferralUnlocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_unlocks_total",
			Help: "Referrals unlocked by an activating purchase",
		},
	)

	RedemptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_redemptions_total",
			Help: "Credit redemptions recorded",
		},
	)
)
