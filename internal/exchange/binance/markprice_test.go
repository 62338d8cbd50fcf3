package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsDropServer accepts the stream handshake and immediately closes the
// socket, forcing consume to return the way a flaky upstream would.
func wsDropServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
}

func TestPriceFeedReconnectReleasesWatcher(t *testing.T) {
	srv := wsDropServer(t)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	feed := NewPriceFeed(wsURL, []string{"BTCUSDT"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// warm up so one-time allocations settle
	for i := 0; i < 5; i++ {
		if err := feed.consume(ctx); err == nil {
			t.Fatal("consume should return an error when the server drops the socket")
		}
	}
	time.Sleep(50 * time.Millisecond)
	before := runtime.NumGoroutine()

	const reconnects = 30
	for i := 0; i < reconnects; i++ {
		_ = feed.consume(ctx)
	}
	time.Sleep(100 * time.Millisecond)
	after := runtime.NumGoroutine()

	if after >= before+reconnects {
		t.Fatalf("goroutines grew from %d to %d over %d reconnects; connection watcher leaked", before, after, reconnects)
	}
}
