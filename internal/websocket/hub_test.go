package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	log, _ := logrustest.NewNullLogger()
	return NewHub(log)
}

func addClient(h *Hub, userID uuid.UUID) *Client {
	c := &Client{Hub: h, Send: make(chan []byte, 4), UserID: userID}
	h.clients[c] = true
	return c
}

func TestDispatchRoutesToRecipients(t *testing.T) {
	h := newTestHub(t)
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	ca := addClient(h, alice)
	cb := addClient(h, bob)
	cc := addClient(h, carol)

	h.dispatch(delivery{message: []byte("direct"), recipients: []uuid.UUID{alice, bob}})
	assert.Len(t, ca.Send, 1)
	assert.Len(t, cb.Send, 1)
	assert.Len(t, cc.Send, 0)

	h.dispatch(delivery{message: []byte("all")})
	assert.Len(t, ca.Send, 2)
	assert.Len(t, cc.Send, 1)
}

func TestDispatchDropsSlowClients(t *testing.T) {
	h := newTestHub(t)
	c := &Client{Hub: h, Send: make(chan []byte), UserID: uuid.New()}
	h.clients[c] = true

	h.dispatch(delivery{message: []byte("x")})
	assert.NotContains(t, h.clients, c)
}

func TestPublishEncodesEnvelope(t *testing.T) {
	h := newTestHub(t)
	to := uuid.New()

	h.Publish("roles.changed", map[string]string{"op": "created"}, to)

	d := <-h.deliveries
	assert.Equal(t, []uuid.UUID{to}, d.recipients)

	var ev struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(d.message, &ev))
	assert.Equal(t, "roles.changed", ev.Type)
	assert.Equal(t, "created", ev.Payload["op"])
}

func TestPublishDropsWhenQueueIsFull(t *testing.T) {
	log, hook := logrustest.NewNullLogger()
	h := NewHub(log)

	// Run is not started, so nothing drains the queue
	done := make(chan struct{})
	go func() {
		for i := 0; i < deliveryQueueSize+5; i++ {
			h.Publish("message.new", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}

	assert.Len(t, h.deliveries, deliveryQueueSize)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Len(t, hook.AllEntries(), 5)
}
