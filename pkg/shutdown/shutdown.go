// Package shutdown coordinates graceful teardown of the engine's
// long-running parts: the HTTP server, the event loop and the job
// manager's drivers.
package shutdown

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Handler is a function that performs cleanup during shutdown
type Handler func(ctx context.Context) error

// Manager runs registered cleanup handlers in order under one timeout
type Manager struct {
	logger         *logrus.Logger
	handlers       []namedHandler
	timeout        time.Duration
	mu             sync.Mutex
	isShuttingDown bool
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a shutdown manager with the given overall timeout
func NewManager(timeout time.Duration, logger *logrus.Logger) *Manager {
	return &Manager{
		logger:  logger,
		timeout: timeout,
	}
}

// RegisterHandler adds a cleanup handler. Handlers run in registration
// order during Shutdown.
func (m *Manager) RegisterHandler(name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, namedHandler{name: name, handler: handler})
}

// Shutdown executes all registered handlers. It returns the first
// handler error but keeps running the remaining handlers regardless.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.isShuttingDown {
		m.mu.Unlock()
		return nil
	}
	m.isShuttingDown = true
	handlers := m.handlers
	m.mu.Unlock()

	m.logger.Info("Starting graceful shutdown")
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var firstErr error
	for _, h := range handlers {
		hStart := time.Now()
		err := h.handler(ctx)
		fields := logrus.Fields{
			"handler":  h.name,
			"duration": time.Since(hStart).Seconds(),
		}
		if err != nil {
			fields["error"] = err.Error()
			m.logger.WithFields(fields).Error("Shutdown handler failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		m.logger.WithFields(fields).Info("Shutdown handler completed")
	}

	m.logger.WithField("duration", time.Since(start).Seconds()).Info("Graceful shutdown complete")
	return firstErr
}
