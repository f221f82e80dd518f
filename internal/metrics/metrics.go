// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Email dispatch metrics
	IncEmailSend(provider, status string) // status: "success" or "failed"
	ObserveEmailSendDuration(provider string, duration time.Duration)
	IncEmailFallback() // fallback-template attempts on the credential path

	// Credential issuance metrics
	IncIssuance(outcome string) // outcome: "issued", "already_issued", "failed"
	ObserveBatchDuration(duration time.Duration)
	ObserveBatchSize(size int)

	// Booking notification metrics
	IncBookingNotification(status string) // status: "sent", "failed", "missing_email"
	SetBookingQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
