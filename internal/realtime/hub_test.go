package realtime

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	frames   chan []byte
	writeErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{frames: make(chan []byte, 16)}
}

func (f *fakeTransport) WriteMessage(data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.frames <- data
	return nil
}

func (f *fakeTransport) Close() error { return nil }

type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func recvFrame(t *testing.T, tr *fakeTransport) frame {
	t.Helper()
	select {
	case data := <-tr.frames:
		var f frame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return frame{}
	}
}

// recvEvent skips over presence snapshots until a frame with the wanted
// name arrives.
func recvEvent(t *testing.T, tr *fakeTransport, name string) frame {
	t.Helper()
	for {
		f := recvFrame(t, tr)
		if f.Event == name {
			return f
		}
		require.Equal(t, EventOnlineUsers, f.Event, "unexpected event %q while waiting for %q", f.Event, name)
	}
}

func requireNoFrame(t *testing.T, tr *fakeTransport) {
	t.Helper()
	select {
	case data := <-tr.frames:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_LookupTracksMostRecentConnection(t *testing.T) {
	hub := NewHub(slogt.New(t))

	c1 := NewClient("alice", newFakeTransport())
	hub.Register(c1)

	got, ok := hub.Lookup("alice")
	require.True(t, ok)
	require.Equal(t, c1.ID(), got.ID())

	// second device replaces the first
	c2 := NewClient("alice", newFakeTransport())
	hub.Register(c2)

	got, ok = hub.Lookup("alice")
	require.True(t, ok)
	require.Equal(t, c2.ID(), got.ID())

	// the stale handle's disconnect must not remove the newer registration
	hub.Unregister(c1.ID())
	got, ok = hub.Lookup("alice")
	require.True(t, ok)
	require.Equal(t, c2.ID(), got.ID())

	hub.Unregister(c2.ID())
	_, ok = hub.Lookup("alice")
	require.False(t, ok)
}

func TestHub_UnregisterUnknownIsNoop(t *testing.T) {
	hub := NewHub(slogt.New(t))
	hub.Register(NewClient("alice", newFakeTransport()))

	hub.Unregister("never-registered")

	require.Equal(t, []string{"alice"}, hub.Online())
}

func TestHub_DeliverToOfflineUserIsNoop(t *testing.T) {
	hub := NewHub(slogt.New(t))
	tr := newFakeTransport()
	hub.Register(NewClient("alice", tr))
	recvEvent(t, tr, EventOnlineUsers)

	// must not panic or surface anything
	hub.Deliver("bob", NewMessage(map[string]string{"message": "hi"}))
	requireNoFrame(t, tr)
}

func TestHub_DeliverPushesExactlyOneFrame(t *testing.T) {
	hub := NewHub(slogt.New(t))
	tr := newFakeTransport()
	hub.Register(NewClient("alice", tr))
	recvEvent(t, tr, EventOnlineUsers)

	hub.Deliver("alice", NewMessage(map[string]string{"message": "hi"}))

	f := recvEvent(t, tr, EventNewMessage)
	require.JSONEq(t, `{"message":"hi"}`, string(f.Payload))
	requireNoFrame(t, tr)
}

func TestHub_OnlineSnapshotReflectsMutation(t *testing.T) {
	hub := NewHub(slogt.New(t))

	trA := newFakeTransport()
	hub.Register(NewClient("alice", trA))
	f := recvEvent(t, trA, EventOnlineUsers)
	require.JSONEq(t, `["alice"]`, string(f.Payload))

	trB := newFakeTransport()
	cB := NewClient("bob", trB)
	hub.Register(cB)

	var online []string
	f = recvEvent(t, trA, EventOnlineUsers)
	require.NoError(t, json.Unmarshal(f.Payload, &online))
	require.ElementsMatch(t, []string{"alice", "bob"}, online)

	f = recvEvent(t, trB, EventOnlineUsers)
	require.NoError(t, json.Unmarshal(f.Payload, &online))
	require.ElementsMatch(t, []string{"alice", "bob"}, online)

	hub.Unregister(cB.ID())
	f = recvEvent(t, trA, EventOnlineUsers)
	require.JSONEq(t, `["alice"]`, string(f.Payload))
}

func TestHub_TransportFailureIsAbsorbed(t *testing.T) {
	hub := NewHub(slogt.New(t))
	tr := newFakeTransport()
	tr.writeErr = errors.New("broken pipe")
	hub.Register(NewClient("alice", tr))

	// the write loop hits the error and closes the client; Deliver still
	// returns without surfacing anything
	hub.Deliver("alice", NewMessage(map[string]string{"message": "hi"}))
}
