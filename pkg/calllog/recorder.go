package calllog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fleetgate-hq/fleetgate/pkg/upstream"
)

// DefaultBuffer is the default async write channel size.
const DefaultBuffer = 1024

// insertTimeout bounds each store write; the worker must not wedge on a
// slow or broken store.
const insertTimeout = 5 * time.Second

// Recorder writes call records to a store asynchronously, so the request
// path never blocks on call logging. When the buffer is full the record is
// dropped and counted, never queued at the caller's expense.
type Recorder struct {
	store   Store
	events  chan *Record
	dropped atomic.Int64
	logger  *slog.Logger

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewRecorder starts the recorder's write worker. A non-positive buffer
// selects DefaultBuffer.
func NewRecorder(store Store, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	r := &Recorder{
		store:  store,
		events: make(chan *Record, buffer),
		logger: slog.Default().With("component", "calllog.recorder"),
		done:   make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

// Observer adapts the recorder to the upstream call-event channel.
func (r *Recorder) Observer() upstream.CallObserver {
	return func(_ context.Context, event upstream.CallEvent) {
		record := newRecord(event)
		select {
		case r.events <- record:
		default:
			r.dropped.Add(1)
		}
	}
}

// Dropped reports how many records were discarded on a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) run() {
	defer r.wg.Done()

	for {
		select {
		case <-r.done:
			// Drain what is already buffered before exiting.
			for {
				select {
				case record := <-r.events:
					r.write(record)
				default:
					return
				}
			}
		case record := <-r.events:
			r.write(record)
		}
	}
}

func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	if err := r.store.Insert(ctx, record); err != nil {
		r.logger.Warn("failed to persist call record",
			"api", record.API,
			"endpoint", record.Endpoint,
			"error", err,
		)
	}
}

// Stop flushes buffered records and stops the worker. The store itself is
// not closed; the caller owns it.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()

	if n := r.Dropped(); n > 0 {
		r.logger.Warn("call records dropped on full buffer", "count", n)
	}
}
