package queue

import (
	"errors"
	"sync"

	"precinctpulse/internal/models"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// DetailQueue is an in-memory queue of analysis detail batches. It
// decouples the analysis runner from persistence: the runner pushes one
// batch per precinct and the processor drains them into the database.
type DetailQueue struct {
	items    chan []*models.PropertyDetail
	done     chan struct{}
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.PropertyDetail) error
}

// NewDetailQueue creates a detail queue with the specified buffer size.
func NewDetailQueue(bufferSize int, logger *logrus.Logger) *DetailQueue {
	return &DetailQueue{
		items:  make(chan []*models.PropertyDetail, bufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Push adds a batch to the queue. The send never blocks; a full buffer
// returns ErrQueueFull so the producer can decide what to do.
func (q *DetailQueue) Push(details []*models.PropertyDetail) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	select {
	case q.items <- details:
		q.logger.WithField("batch_size", len(details)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler that will be called for each batch.
func (q *DetailQueue) Subscribe(handler func([]*models.PropertyDetail) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins draining the queue in a background goroutine.
func (q *DetailQueue) Start() {
	go q.process()
}

func (q *DetailQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

// processBatch fans the batch out to all subscribed handlers. A failing
// handler is logged and does not stop the others.
func (q *DetailQueue) processBatch(batch []*models.PropertyDetail) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new pushes. Closing twice is a
// no-op.
func (q *DetailQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of buffered batches.
func (q *DetailQueue) Len() int {
	return len(q.items)
}

// IsClosed reports whether the queue has been closed.
func (q *DetailQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
