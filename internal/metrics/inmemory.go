package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EmailSends           map[string]uint64 // keyed by provider + ":" + status
	EmailFallbacks       uint64
	Issuances            map[string]uint64 // keyed by outcome
	BatchRuns            uint64
	BatchDurationTotalNs int64
	LastBatchSize        int
	BookingNotifications map[string]uint64 // keyed by status
	BookingQueueDepth    int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                   sync.Mutex
	emailSends           map[string]uint64
	emailFallbacks       uint64
	issuances            map[string]uint64
	batchRuns            uint64
	batchDurationTotalNs int64
	lastBatchSize        int
	bookingNotifications map[string]uint64
	bookingQueueDepth    int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		emailSends:           make(map[string]uint64),
		issuances:            make(map[string]uint64),
		bookingNotifications: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		EmailSends:           make(map[string]uint64, len(m.emailSends)),
		EmailFallbacks:       m.emailFallbacks,
		Issuances:            make(map[string]uint64, len(m.issuances)),
		BatchRuns:            m.batchRuns,
		BatchDurationTotalNs: m.batchDurationTotalNs,
		LastBatchSize:        m.lastBatchSize,
		BookingNotifications: make(map[string]uint64, len(m.bookingNotifications)),
		BookingQueueDepth:    m.bookingQueueDepth,
	}
	for k, v := range m.emailSends {
		snap.EmailSends[k] = v
	}
	for k, v := range m.issuances {
		snap.Issuances[k] = v
	}
	for k, v := range m.bookingNotifications {
		snap.BookingNotifications[k] = v
	}
	return snap
}

// IncEmailSend increments the send counter for a provider/status pair.
func (m *InMemoryRecorder) IncEmailSend(provider, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailSends[provider+":"+status]++
}

// ObserveEmailSendDuration is tracked only in aggregate batch duration here.
func (m *InMemoryRecorder) ObserveEmailSendDuration(provider string, duration time.Duration) {}

// IncEmailFallback counts fallback-template attempts.
func (m *InMemoryRecorder) IncEmailFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailFallbacks++
}

// IncIssuance counts issuance outcomes.
func (m *InMemoryRecorder) IncIssuance(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issuances[outcome]++
}

// ObserveBatchDuration records a completed batch run.
func (m *InMemoryRecorder) ObserveBatchDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchRuns++
	m.batchDurationTotalNs += duration.Nanoseconds()
}

// ObserveBatchSize records the size of the last batch.
func (m *InMemoryRecorder) ObserveBatchSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastBatchSize = size
}

// IncBookingNotification counts notification outcomes.
func (m *InMemoryRecorder) IncBookingNotification(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingNotifications[status]++
}

// SetBookingQueueDepth records the event stream depth.
func (m *InMemoryRecorder) SetBookingQueueDepth(depth int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingQueueDepth = depth
}
