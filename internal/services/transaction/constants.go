package transaction

import "time"

// Listing defaults
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// DefaultGeoTimeout bounds a single geolocation lookup.
const DefaultGeoTimeout = 2 * time.Second

// Operation names used for metrics.
const (
	opPredict      = "predict"
	opAlertPublish = "alert_publish"
)
