// Package notification dispatches outbound email off the request path.
// Handlers enqueue and return immediately; a small worker pool drains the
// queue so a slow relay never stalls an HTTP response.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vietcare/platform/internal/shared/logging"
	"github.com/vietcare/platform/internal/shared/metrics"
)

const sendTimeout = 15 * time.Second

// Service is the async mail dispatcher.
type Service struct {
	provider EmailProvider
	queue    chan Message
	wg       sync.WaitGroup
	log      zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewService creates a dispatcher backed by the given provider.
func NewService(provider EmailProvider, buffer int) *Service {
	if buffer <= 0 {
		buffer = 64
	}
	return &Service{
		provider: provider,
		queue:    make(chan Message, buffer),
		log:      logging.Component("notification"),
	}
}

// Start launches the worker pool. Workers exit when Stop closes the queue.
func (s *Service) Start(workers int) {
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// Stop closes the queue and waits for in-flight sends to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Enqueue submits a message for delivery. When the queue is full the
// message is dropped rather than blocking the caller.
func (s *Service) Enqueue(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		metrics.RecordNotification("dropped")
		return
	}

	select {
	case s.queue <- msg:
	default:
		metrics.RecordNotification("dropped")
		s.log.Warn().Str("to", msg.To).Msg("notification queue full, dropping message")
	}
}

func (s *Service) worker() {
	defer s.wg.Done()
	for msg := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := s.provider.Send(ctx, msg)
		cancel()

		if err != nil {
			metrics.RecordNotification("failed")
			s.log.Error().Err(err).Str("to", msg.To).Msg("failed to send notification")
			continue
		}
		metrics.RecordNotification("sent")
	}
}
