package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations counts registration attempts by result (created|conflict|invalid|error).
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rider_auth_registrations_total",
			Help: "Total number of account registration attempts",
		},
		[]string{"result"},
	)

	// Verifications counts code submissions by result.
	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rider_auth_verifications_total",
			Help: "Total number of verification code submissions",
		},
		[]string{"result"},
	)

	// Logins counts login attempts by result (success|challenge|failure|error).
	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rider_auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	CodesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rider_auth_codes_issued_total",
			Help: "Total number of one-time codes issued",
		},
		[]string{"purpose"},
	)

	// NotificationFailures counts best-effort deliveries that failed (email|event).
	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rider_auth_notification_failures_total",
			Help: "Total number of failed notification deliveries",
		},
		[]string{"kind"},
	)
)
