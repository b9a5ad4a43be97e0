// Package logsink forwards application log lines into the Postgres log store.
// It plugs into zerolog as an additional writer: each JSON line is parsed,
// queued on a bounded channel, and batch-inserted by a background worker.
// When the buffer is full, records are dropped (and counted) rather than
// blocking request handling.
package logsink

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/stationhouse/backplate/internal/storage"
	"github.com/stationhouse/backplate/pkg/logging"
)

// Inserter persists batches of log records. *storage.Store implements it.
type Inserter interface {
	InsertLogRecords(ctx context.Context, records []storage.LogRecord) error
}

const (
	defaultBufferSize    = 1024
	defaultBatchSize     = 64
	defaultFlushInterval = 2 * time.Second
)

// Sink is an io.Writer that queues parsed log lines for persistence.
// It is safe to use as a zerolog writer from multiple goroutines.
type Sink struct {
	inserter Inserter
	queue    chan storage.LogRecord
	dropped  atomic.Int64

	batchSize     int
	flushInterval time.Duration
	log           zerolog.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithBufferSize sets the queue capacity.
func WithBufferSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.queue = make(chan storage.LogRecord, n)
		}
	}
}

// WithBatchSize sets the maximum records per insert.
func WithBatchSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithFlushInterval sets how often a partial batch is flushed.
func WithFlushInterval(d time.Duration) Option {
	return func(s *Sink) {
		if d > 0 {
			s.flushInterval = d
		}
	}
}

// New creates a sink writing to the given inserter.
func New(inserter Inserter, logger *zerolog.Logger, opts ...Option) *Sink {
	s := &Sink{
		inserter:      inserter,
		queue:         make(chan storage.LogRecord, defaultBufferSize),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		log:           logging.Component(logger, "logsink"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// logLine is the subset of a zerolog JSON line the sink persists.
type logLine struct {
	Level     string    `json:"level"`
	Time      time.Time `json:"time"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	RequestID string    `json:"rid"`
}

// Write implements io.Writer. It never returns an error so logging keeps
// working regardless of sink state.
func (s *Sink) Write(p []byte) (int, error) {
	var line logLine
	if err := json.Unmarshal(p, &line); err != nil {
		// Not a JSON log line (console writer, partial write); skip it.
		return len(p), nil
	}
	if line.Time.IsZero() {
		line.Time = time.Now()
	}

	rec := storage.LogRecord{
		Timestamp: line.Time,
		Level:     line.Level,
		Component: line.Component,
		Message:   line.Message,
		RequestID: line.RequestID,
	}

	select {
	case s.queue <- rec:
	default:
		s.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped returns how many records were discarded due to a full buffer.
func (s *Sink) Dropped() int64 {
	return s.dropped.Load()
}

// Run consumes the queue until ctx is cancelled, then flushes what remains.
func (s *Sink) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]storage.LogRecord, 0, s.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Bounded write so a dead database cannot wedge shutdown.
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.inserter.InsertLogRecords(flushCtx, batch); err != nil {
			s.log.Warn().Err(err).Int("records", len(batch)).Msg(logging.Fail + " flush failed")
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			s.drain(&batch)
			flush()
			return nil
		case rec := <-s.queue:
			batch = append(batch, rec)
			if len(batch) >= s.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// drain moves whatever is still queued into the batch without blocking.
func (s *Sink) drain(batch *[]storage.LogRecord) {
	for {
		select {
		case rec := <-s.queue:
			*batch = append(*batch, rec)
		default:
			return
		}
	}
}
