package ws

import (
	"bytes"
	"encoding/json"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients, have %d", want, hub.ClientCount())
}

func TestHubRoutesEventsToOwnersRoomOnly(t *testing.T) {
	hub := NewHub(log.New(&bytes.Buffer{}, "", 0))
	go hub.Run()

	aliceID := uuid.New()
	bobID := uuid.New()
	alice := NewClient(hub, nil, aliceID)
	bob := NewClient(hub, nil, bobID)

	hub.Register(alice)
	hub.Register(bob)
	waitForClients(t, hub, 2)

	hub.Publish(aliceID, []byte(`{"hello":"alice"}`))

	select {
	case msg := <-alice.send:
		if string(msg) != `{"hello":"alice"}` {
			t.Fatalf("unexpected payload: %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("alice never received her event")
	}

	select {
	case msg := <-bob.send:
		t.Fatalf("bob must not see alice's event, got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(log.New(&bytes.Buffer{}, "", 0))
	go hub.Run()

	client := NewClient(hub, nil, uuid.New())
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Unregister(client)
	waitForClients(t, hub, 0)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatalf("expected a closed channel, got a message")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("send channel was not closed on unregister")
	}
}

func TestIngestEventsPublishesToUser(t *testing.T) {
	hub := NewHub(log.New(&bytes.Buffer{}, "", 0))
	go hub.Run()

	userID := uuid.New()
	client := NewClient(hub, nil, userID)
	hub.Register(client)
	waitForClients(t, hub, 1)

	events := NewIngestEvents(hub)
	events.JobsIngested(userID, 3)

	select {
	case msg := <-client.send:
		var evt JobsIngestedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if evt.Type != "jobs_ingested" || evt.Count != 3 || evt.UserID != userID {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("ingest event never arrived")
	}

	events.JobsIngested(userID, 0)
	select {
	case msg := <-client.send:
		t.Fatalf("zero-count ingest must not publish, got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
