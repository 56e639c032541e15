package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// dialTestClient upgrades a real connection, registers it in the hub and
// returns both ends.
func dialTestClient(t *testing.T, hub *Hub, employeeID int) (*Client, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	registered := make(chan *Client, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		registered <- hub.Register(conn, employeeID)
	}))
	t.Cleanup(srv.Close)

	dialURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(dialURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	client := <-registered
	require.Equal(t, 1, hub.ClientCount())
	return client, peer
}

// Broadcasts arrive from the notify worker while the read loop replies to
// pings on the same connection; both paths must funnel through the one
// writer goroutine without racing.
func TestBroadcastAndClientSendConcurrently(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client, peer := dialTestClient(t, hub, 7)

	const perSide = 25
	received := make(chan struct{}, 2*perSide)
	go func() {
		for {
			if _, _, err := peer.ReadMessage(); err != nil {
				return
			}
			received <- struct{}{}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perSide; i++ {
			hub.Broadcast(ApprovalNotification{Event: EventApproval, Type: "stage_approved"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perSide; i++ {
			client.Send(PongResponse{Event: EventPong})
		}
	}()
	wg.Wait()

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}
}

func TestUnregisterDuringBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client, _ := dialTestClient(t, hub, 9)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			hub.Broadcast(ApprovalNotification{Event: EventApproval, Type: "submitted"})
		}
	}()
	go func() {
		defer wg.Done()
		hub.Unregister(client.conn)
	}()
	wg.Wait()

	require.Equal(t, 0, hub.ClientCount())
	require.False(t, client.Send(PongResponse{Event: EventPong}))
}
