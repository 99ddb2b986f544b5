package notify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixelgram/pixelgram/internal/realtime"
)

type delivery struct {
	userID string
	event  realtime.Event
}

type recorder struct {
	deliveries []delivery
}

func (r *recorder) Deliver(userID string, ev realtime.Event) {
	r.deliveries = append(r.deliveries, delivery{userID: userID, event: ev})
}

func TestMessageSent(t *testing.T) {
	sender := realtime.UserSummary{ID: "alice", Username: "alice", ProfilePicture: "a.png"}
	msg := map[string]string{"message": "hey"}

	t.Run("DeliversMessageAndNotification", func(t *testing.T) {
		rec := &recorder{}
		MessageSent(rec, sender, "bob", msg)

		require.Len(t, rec.deliveries, 2)
		require.Equal(t, "bob", rec.deliveries[0].userID)
		require.Equal(t, realtime.EventNewMessage, rec.deliveries[0].event.Name)
		require.Equal(t, "bob", rec.deliveries[1].userID)
		require.Equal(t, realtime.EventNewMessageNotification, rec.deliveries[1].event.Name)

		payload, ok := rec.deliveries[1].event.Payload.(realtime.NotificationPayload)
		require.True(t, ok)
		require.Equal(t, "message", payload.Type)
		require.Equal(t, "alice", payload.UserID)
		require.Equal(t, sender, payload.UserDetails)
	})

	t.Run("SelfMessageSuppressed", func(t *testing.T) {
		rec := &recorder{}
		MessageSent(rec, sender, "alice", msg)
		require.Empty(t, rec.deliveries)
	})
}

func TestPostReaction(t *testing.T) {
	actor := realtime.UserSummary{ID: "alice", Username: "alice"}

	t.Run("Like", func(t *testing.T) {
		rec := &recorder{}
		PostReaction(rec, "like", actor, "bob", "post-1")

		require.Len(t, rec.deliveries, 1)
		require.Equal(t, "bob", rec.deliveries[0].userID)
		require.Equal(t, realtime.EventNotification, rec.deliveries[0].event.Name)

		payload := rec.deliveries[0].event.Payload.(realtime.NotificationPayload)
		require.Equal(t, "like", payload.Type)
		require.Equal(t, "post-1", payload.PostID)
		require.Equal(t, "Your post was liked", payload.Message)
	})

	t.Run("Dislike", func(t *testing.T) {
		rec := &recorder{}
		PostReaction(rec, "dislike", actor, "bob", "post-1")

		require.Len(t, rec.deliveries, 1)
		payload := rec.deliveries[0].event.Payload.(realtime.NotificationPayload)
		require.Equal(t, "dislike", payload.Type)
		require.Equal(t, "Your post was disliked", payload.Message)
	})

	t.Run("SelfReactionSuppressed", func(t *testing.T) {
		rec := &recorder{}
		PostReaction(rec, "like", actor, "alice", "post-1")
		require.Empty(t, rec.deliveries)
	})
}
