package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventWireFormat(t *testing.T) {
	sender := UserSummary{ID: "u1", Username: "alice", ProfilePicture: "pic.png"}

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "NewMessage",
			event: NewMessage(map[string]string{"message": "hi"}),
			want:  `{"event":"newMessage","payload":{"message":"hi"}}`,
		},
		{
			name:  "MessageNotification",
			event: MessageNotification(sender, "New message received"),
			want: `{"event":"newMessageNotification","payload":{
				"type":"message","userId":"u1",
				"userDetails":{"id":"u1","username":"alice","profilePicture":"pic.png"},
				"message":"New message received"}}`,
		},
		{
			name:  "ReactionNotification",
			event: ReactionNotification("like", sender, "p1", "Your post was liked"),
			want: `{"event":"notification","payload":{
				"type":"like","userId":"u1",
				"userDetails":{"id":"u1","username":"alice","profilePicture":"pic.png"},
				"postId":"p1","message":"Your post was liked"}}`,
		},
		{
			name:  "OnlineUsers",
			event: onlineUsers([]string{"u1", "u2"}),
			want:  `{"event":"getOnlineUsers","payload":["u1","u2"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.event.encode()
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(data))
		})
	}
}
