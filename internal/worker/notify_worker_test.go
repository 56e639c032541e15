package worker

import (
	"context"
	"testing"
	"time"

	"github.com/payhub/payhub-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func TestStartSignalsCompletionOnCancel(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	w := NewNotifyWorker(rdb, websocket.NewHub(zerolog.Nop()), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := w.Start(ctx)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
