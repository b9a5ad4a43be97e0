package logsink

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationhouse/backplate/internal/storage"
	"github.com/stationhouse/backplate/pkg/logging"
)

type fakeInserter struct {
	mu      sync.Mutex
	records []storage.LogRecord
	batches int
}

func (f *fakeInserter) InsertLogRecords(_ context.Context, records []storage.LogRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
	f.batches++
	return nil
}

func (f *fakeInserter) all() []storage.LogRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.LogRecord(nil), f.records...)
}

func TestSinkPersistsZerologLines(t *testing.T) {
	inserter := &fakeInserter{}
	sink := New(inserter, logging.Nop(), WithFlushInterval(10*time.Millisecond))

	logger := zerolog.New(sink).With().Timestamp().Logger()
	tagged := logging.Component(&logger, "db")
	tagged.Info().Str("rid", "r-1").Msg(logging.OK + " connected")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = sink.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(inserter.all()) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	rec := inserter.all()[0]
	assert.Equal(t, "info", rec.Level)
	assert.Equal(t, "db", rec.Component)
	assert.Equal(t, "r-1", rec.RequestID)
	assert.Contains(t, rec.Message, "connected")
	assert.False(t, rec.Timestamp.IsZero())
}

func TestSinkFlushesOnShutdown(t *testing.T) {
	inserter := &fakeInserter{}
	sink := New(inserter, logging.Nop(), WithFlushInterval(time.Hour))

	logger := zerolog.New(sink).With().Timestamp().Logger()
	for i := 0; i < 5; i++ {
		logger.Info().Msg("line")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = sink.Run(ctx)
		close(done)
	}()

	cancel()
	<-done

	assert.Len(t, inserter.all(), 5)
}

func TestSinkBatchesBySize(t *testing.T) {
	inserter := &fakeInserter{}
	sink := New(inserter, logging.Nop(), WithBatchSize(2), WithFlushInterval(time.Hour))

	logger := zerolog.New(sink).With().Timestamp().Logger()
	for i := 0; i < 4; i++ {
		logger.Info().Msg("line")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = sink.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(inserter.all()) == 4
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestSinkDropsWhenFull(t *testing.T) {
	inserter := &fakeInserter{}
	sink := New(inserter, logging.Nop(), WithBufferSize(1))

	logger := zerolog.New(sink).With().Timestamp().Logger()
	// Worker not running: first line queues, the rest drop.
	for i := 0; i < 3; i++ {
		logger.Info().Msg("line")
	}

	assert.Equal(t, int64(2), sink.Dropped())
}

func TestSinkIgnoresNonJSON(t *testing.T) {
	sink := New(&fakeInserter{}, logging.Nop())

	n, err := sink.Write([]byte("plain text line\n"))
	assert.NoError(t, err)
	assert.Equal(t, len("plain text line\n"), n)
	assert.Equal(t, int64(0), sink.Dropped())
}
