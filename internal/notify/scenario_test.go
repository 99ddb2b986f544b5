package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"github.com/pixelgram/pixelgram/internal/realtime"
)

type chanTransport struct {
	frames chan []byte
}

func (c *chanTransport) WriteMessage(data []byte) error {
	c.frames <- data
	return nil
}

func (c *chanTransport) Close() error { return nil }

func recv(t *testing.T, tr *chanTransport, want string) json.RawMessage {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case data := <-tr.frames:
			var f struct {
				Event   string          `json:"event"`
				Payload json.RawMessage `json:"payload"`
			}
			require.NoError(t, json.Unmarshal(data, &f))
			if f.Event == want {
				return f.Payload
			}
			require.Equal(t, realtime.EventOnlineUsers, f.Event)
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

// Two users chat, then one goes offline and misses a like notification.
// Delivery to the offline user must drop silently.
func TestMessageThenOfflineLike(t *testing.T) {
	hub := realtime.NewHub(slogt.New(t))

	trA := &chanTransport{frames: make(chan []byte, 16)}
	trB := &chanTransport{frames: make(chan []byte, 16)}
	alice := realtime.NewClient("alice", trA)
	bob := realtime.NewClient("bob", trB)
	hub.Register(alice)
	hub.Register(bob)

	// alice messages bob: exactly two deliveries for bob, none for alice
	aliceSummary := realtime.UserSummary{ID: "alice", Username: "alice"}
	MessageSent(hub, aliceSummary, "bob", map[string]string{"message": "hi bob"})

	payload := recv(t, trB, realtime.EventNewMessage)
	require.JSONEq(t, `{"message":"hi bob"}`, string(payload))
	recv(t, trB, realtime.EventNewMessageNotification)

	requireOnlyPresence(t, trA.frames, "sender must not receive message events")

	// bob disconnects, then alice likes bob's post: dropped, no panic
	hub.Unregister(bob.ID())
	_, online := hub.Lookup("bob")
	require.False(t, online)

	PostReaction(hub, "like", aliceSummary, "bob", "post-1")

	// nothing beyond presence updates ever reaches bob's old transport
	requireOnlyPresence(t, trB.frames, "offline user must not receive the notification")
}

// requireOnlyPresence drains queued frames and fails on anything that is
// not an online-users snapshot.
func requireOnlyPresence(t *testing.T, frames chan []byte, msg string) {
	t.Helper()
	for {
		select {
		case data := <-frames:
			var f struct {
				Event string `json:"event"`
			}
			require.NoError(t, json.Unmarshal(data, &f))
			require.Equal(t, realtime.EventOnlineUsers, f.Event, msg)
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}
