package alert

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type captureNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureNotifier) Notify(_ context.Context, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *captureNotifier) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func TestManagerDeliversFormattedEvent(t *testing.T) {
	n := &captureNotifier{}
	m := NewManager(n, nil)
	m.Important("order_placed", map[string]string{
		"symbol": "BTCUSDT",
		"side":   "BUY",
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	msgs := n.messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if !strings.HasPrefix(msgs[0], "order_placed") {
		t.Fatalf("message = %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "side: BUY") || !strings.Contains(msgs[0], "symbol: BTCUSDT") {
		t.Fatalf("fields missing: %q", msgs[0])
	}
}

func TestManagerNilSafe(t *testing.T) {
	var m *Manager
	m.Important("noop", nil)
	if err := m.Close(context.Background()); err != nil {
		t.Fatalf("nil Close() error = %v", err)
	}
}

func TestNewManagerNilNotifier(t *testing.T) {
	if m := NewManager(nil, nil); m != nil {
		t.Fatalf("NewManager(nil) = %v, want nil", m)
	}
}
