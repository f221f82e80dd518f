package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medyatra/credsvc/internal/metrics"
)

const (
	// DefaultBatchSize is the max events per read.
	DefaultBatchSize = 50

	// DefaultBlockTimeout is how long to block waiting for messages.
	DefaultBlockTimeout = 5 * time.Second

	// DefaultClaimInterval is how often to scan pending messages.
	DefaultClaimInterval = 30 * time.Second

	// DefaultClaimIdle is the idle time before reclaiming pending messages.
	DefaultClaimIdle = 60 * time.Second

	// DefaultMetricsInterval is how often to refresh queue depth metrics.
	DefaultMetricsInterval = 10 * time.Second
)

// Notifier runs the booking notification workflow for one appointment.
type Notifier interface {
	NotifyAppointmentCreated(ctx context.Context, appointmentID string) error
}

// Worker consumes appointment-created events and triggers notifications.
// Every message is acknowledged after one processing attempt: a failed
// notification is recorded on the appointment record and is terminal, so
// the stream never redelivers it.
type Worker struct {
	redis           *redis.Client
	notifier        Notifier
	logger          *slog.Logger
	metrics         metrics.Recorder
	consumerID      string
	batchSize       int
	blockTimeout    time.Duration
	claimInterval   time.Duration
	claimIdle       time.Duration
	metricsInterval time.Duration
	claimStartID    string
	lastClaim       time.Time
	lastMetrics     time.Time

	started  bool
	draining bool
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
}

// NewWorker creates a new booking notification worker.
func NewWorker(client *redis.Client, notifier Notifier, logger *slog.Logger, consumerID string, recorder metrics.Recorder) *Worker {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Worker{
		redis:           client,
		notifier:        notifier,
		logger:          logger.With("component", "booking.worker", "consumer_id", consumerID),
		metrics:         recorder,
		consumerID:      consumerID,
		batchSize:       DefaultBatchSize,
		blockTimeout:    DefaultBlockTimeout,
		claimInterval:   DefaultClaimInterval,
		claimIdle:       DefaultClaimIdle,
		metricsInterval: DefaultMetricsInterval,
		claimStartID:    "0-0",
	}
}

// Run starts the worker loop. Blocks until context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errors.New("worker already started")
	}
	w.started = true
	w.done = make(chan struct{})
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	defer close(w.done)

	// Ensure consumer group exists
	if err := w.ensureConsumerGroup(ctx); err != nil {
		return fmt.Errorf("ensure consumer group: %w", err)
	}

	w.logger.Info("booking worker started")

	for {
		w.mu.Lock()
		draining := w.draining
		w.mu.Unlock()

		if draining {
			w.logger.Info("booking worker draining, stopping")
			return nil
		}

		select {
		case <-ctx.Done():
			w.logger.Info("booking worker stopping")
			return ctx.Err()
		default:
			if err := w.processOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Error("process error", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Shutdown gracefully stops the worker, completing any in-flight batch.
// It implements server.ShutdownFunc for integration with graceful shutdown.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.draining = true
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	w.logger.Info("booking worker shutdown initiated")

	if cancel != nil {
		cancel()
	}

	if done != nil {
		select {
		case <-done:
			w.logger.Info("booking worker shutdown complete")
			return nil
		case <-ctx.Done():
			w.logger.Warn("booking worker shutdown timed out")
			return ctx.Err()
		}
	}
	return nil
}

// ensureConsumerGroup creates the consumer group if it doesn't exist.
func (w *Worker) ensureConsumerGroup(ctx context.Context) error {
	err := w.redis.XGroupCreateMkStream(ctx, StreamKey, ConsumerGroup, "0").Err()
	if err != nil && !isConsumerGroupExistsError(err) {
		return err
	}
	return nil
}

// processOnce reads and processes one batch of events.
func (w *Worker) processOnce(ctx context.Context) error {
	w.maybeUpdateQueueDepth(ctx)

	claimed, err := w.maybeClaimPending(ctx)
	if err != nil {
		w.logger.Warn("failed to claim pending messages", "error", err)
	}

	messages := claimed
	if len(messages) == 0 {
		messages, err = w.readBatch(ctx)
		if err != nil {
			return err
		}
	}

	for _, msg := range messages {
		w.handleMessage(ctx, msg)
	}

	return nil
}

// handleMessage runs the notification workflow for one event and always
// acknowledges the message afterward.
func (w *Worker) handleMessage(ctx context.Context, msg redis.XMessage) {
	event, ok := w.parseMessage(ctx, msg)
	if ok {
		if err := w.notifier.NotifyAppointmentCreated(ctx, event.AppointmentID); err != nil {
			// Failure is recorded on the appointment record; terminal.
			w.logger.Error("booking notification failed",
				"appointment_id", event.AppointmentID,
				"stream_id", msg.ID,
				"error", err,
			)
		}
	}

	if err := w.redis.XAck(ctx, StreamKey, ConsumerGroup, msg.ID).Err(); err != nil {
		w.logger.Warn("failed to ack message", "stream_id", msg.ID, "error", err)
	}
}

// parseMessage decodes one Redis message. Malformed messages are moved to
// the dead-letter stream.
func (w *Worker) parseMessage(ctx context.Context, msg redis.XMessage) (AppointmentCreatedEvent, bool) {
	payload, ok := msg.Values["payload"].(string)
	if !ok {
		w.deadLetterMessage(ctx, msg, "invalid_format", "payload field missing or not a string")
		return AppointmentCreatedEvent{}, false
	}

	var event AppointmentCreatedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		w.deadLetterMessage(ctx, msg, "unmarshal_error", err.Error())
		return AppointmentCreatedEvent{}, false
	}
	if err := ValidateEvent(event); err != nil {
		w.deadLetterMessage(ctx, msg, "validation_error", err.Error())
		return AppointmentCreatedEvent{}, false
	}

	return event, true
}

// deadLetterMessage copies a poison message to the DLQ stream.
func (w *Worker) deadLetterMessage(ctx context.Context, msg redis.XMessage, reason, detail string) {
	w.logger.Warn("dead-lettering message",
		"stream_id", msg.ID,
		"reason", reason,
		"detail", detail,
	)

	values := map[string]interface{}{
		"original_id": msg.ID,
		"reason":      reason,
		"detail":      detail,
	}
	if payload, ok := msg.Values["payload"]; ok {
		values["payload"] = payload
	}

	if err := w.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: DeadLetterStreamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: values,
	}).Err(); err != nil {
		w.logger.Error("failed to dead-letter message", "stream_id", msg.ID, "error", err)
	}
}

// readBatch reads messages from the stream using XREADGROUP.
func (w *Worker) readBatch(ctx context.Context) ([]redis.XMessage, error) {
	streams, err := w.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroup,
		Consumer: w.consumerID,
		Streams:  []string{StreamKey, ">"},
		Count:    int64(w.batchSize),
		Block:    w.blockTimeout,
	}).Result()

	if err == redis.Nil || len(streams) == 0 {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}

	return streams[0].Messages, nil
}

// maybeClaimPending reclaims messages left pending by crashed consumers.
func (w *Worker) maybeClaimPending(ctx context.Context) ([]redis.XMessage, error) {
	if w.claimInterval <= 0 || w.claimIdle <= 0 {
		return nil, nil
	}
	if !w.lastClaim.IsZero() && time.Since(w.lastClaim) < w.claimInterval {
		return nil, nil
	}

	w.lastClaim = time.Now()
	messages, start, err := w.redis.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   StreamKey,
		Group:    ConsumerGroup,
		Consumer: w.consumerID,
		MinIdle:  w.claimIdle,
		Start:    w.claimStartID,
		Count:    int64(w.batchSize),
	}).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("xautoclaim: %w", err)
	}
	if start != "" {
		w.claimStartID = start
	}
	return messages, nil
}

func (w *Worker) maybeUpdateQueueDepth(ctx context.Context) {
	if w.metricsInterval <= 0 {
		return
	}
	if !w.lastMetrics.IsZero() && time.Since(w.lastMetrics) < w.metricsInterval {
		return
	}
	w.lastMetrics = time.Now()

	groups, err := w.redis.XInfoGroups(ctx, StreamKey).Result()
	if err != nil && err != redis.Nil {
		w.logger.Warn("failed to read stream group info", "error", err)
		return
	}
	for _, group := range groups {
		if group.Name == ConsumerGroup {
			w.metrics.SetBookingQueueDepth(group.Pending + group.Lag)
			return
		}
	}
}

// SetBatchSize overrides the default batch size.
func (w *Worker) SetBatchSize(size int) {
	if size > 0 {
		w.batchSize = size
	}
}

// SetBlockTimeout overrides the default blocking timeout.
func (w *Worker) SetBlockTimeout(timeout time.Duration) {
	if timeout > 0 {
		w.blockTimeout = timeout
	}
}

// isConsumerGroupExistsError reports the BUSYGROUP reply from XGROUP CREATE.
func isConsumerGroupExistsError(err error) bool {
	return err != nil && len(err.Error()) >= 9 && err.Error()[:9] == "BUSYGROUP"
}
