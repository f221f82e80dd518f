package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEmailSend is a no-op.
func (n *NoopRecorder) IncEmailSend(provider, status string) {}

// ObserveEmailSendDuration is a no-op.
func (n *NoopRecorder) ObserveEmailSendDuration(provider string, duration time.Duration) {}

// IncEmailFallback is a no-op.
func (n *NoopRecorder) IncEmailFallback() {}

// IncIssuance is a no-op.
func (n *NoopRecorder) IncIssuance(outcome string) {}

// ObserveBatchDuration is a no-op.
func (n *NoopRecorder) ObserveBatchDuration(duration time.Duration) {}

// ObserveBatchSize is a no-op.
func (n *NoopRecorder) ObserveBatchSize(size int) {}

// IncBookingNotification is a no-op.
func (n *NoopRecorder) IncBookingNotification(status string) {}

// SetBookingQueueDepth is a no-op.
func (n *NoopRecorder) SetBookingQueueDepth(depth int64) {}
