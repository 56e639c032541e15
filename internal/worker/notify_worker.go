package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/payhub/payhub-backend/internal/config"
	"github.com/payhub/payhub-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NotifyWorker consumes the approval event queue and fans events out to
// WebSocket subscribers. Queueing through Redis decouples approval actions
// from slow or disconnecting clients.
type NotifyWorker struct {
	rdb *redis.Client
	hub *websocket.Hub
	log zerolog.Logger
}

// NewNotifyWorker creates a new NotifyWorker.
func NewNotifyWorker(rdb *redis.Client, hub *websocket.Hub, log zerolog.Logger) *NotifyWorker {
	return &NotifyWorker{
		rdb: rdb,
		hub: hub,
		log: log.With().Str("component", "notify_worker").Logger(),
	}
}

// eventPayload mirrors the queued approval event JSON.
type eventPayload struct {
	Type       string    `json:"type"`
	InvoiceID  string    `json:"invoice_id"`
	ApprovalID int       `json:"approval_id"`
	StageIndex int       `json:"stage_index"`
	ActorID    int       `json:"actor_id"`
	At         time.Time `json:"at"`
}

// Start runs the consume loop in its own goroutine. The returned channel
// closes once the loop has drained after ctx is cancelled, so shutdown can
// wait for it instead of guessing.
func (w *NotifyWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.log.Info().Msg("Worker started")

		for {
			select {
			case <-ctx.Done():
				w.log.Info().Msg("Worker stopped")
				return
			default:
				w.processNext(ctx)
			}
		}
	}()
	return done
}

func (w *NotifyWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.ApprovalEventsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload eventPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	w.hub.Broadcast(websocket.ApprovalNotification{
		Event:      websocket.EventApproval,
		Type:       payload.Type,
		InvoiceID:  payload.InvoiceID,
		ApprovalID: payload.ApprovalID,
		StageIndex: payload.StageIndex,
		ActorID:    payload.ActorID,
		At:         payload.At,
	})
}
