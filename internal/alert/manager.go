package alert

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers one message to an external channel.
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

// Alerter is what the rest of the dashboard sees: fire-and-forget events
// about order flow (placed, rejected, security violations).
type Alerter interface {
	Important(event string, fields map[string]string)
}

const (
	defaultQueueSize   = 64
	defaultSendTimeout = 10 * time.Second
)

// Manager delivers alerts asynchronously so a slow notifier never blocks an
// order submission. The queue is bounded; overflow drops the event with a
// log line rather than backpressuring the request path.
type Manager struct {
	notifier Notifier
	log      *zap.Logger
	queue    chan event
	stop     chan struct{}
	done     chan struct{}

	mu     sync.Mutex
	closed bool
}

type event struct {
	name   string
	fields map[string]string
}

func NewManager(notifier Notifier, logger *zap.Logger) *Manager {
	if notifier == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		notifier: notifier,
		log:      logger,
		queue:    make(chan event, defaultQueueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go m.loop()
	return m
}

// Important queues an alert. Safe on a nil manager so callers never need a
// nil check when alerting is disabled.
func (m *Manager) Important(name string, fields map[string]string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	ev := event{name: name, fields: cloneFields(fields)}
	select {
	case m.queue <- ev:
	default:
		m.log.Warn("alert dropped, queue full", zap.String("event", name))
	}
}

// Close drains pending alerts until the context expires.
func (m *Manager) Close(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()
	close(m.stop)
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) loop() {
	defer close(m.done)
	for {
		select {
		case ev := <-m.queue:
			m.deliver(ev)
		case <-m.stop:
			// drain what is already queued
			for {
				select {
				case ev := <-m.queue:
					m.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) deliver(ev event) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSendTimeout)
	defer cancel()
	if err := m.notifier.Notify(ctx, formatEvent(ev)); err != nil {
		m.log.Warn("alert delivery failed", zap.String("event", ev.name), zap.Error(err))
	}
}

func formatEvent(ev event) string {
	var b strings.Builder
	b.WriteString(ev.name)
	keys := make([]string, 0, len(ev.fields))
	for k := range ev.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\n")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(ev.fields[k])
	}
	return b.String()
}

func cloneFields(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
