package realtime

import "encoding/json"

// Event names match the ones the web client subscribes to.
const (
	EventNewMessage             = "newMessage"
	EventNewMessageNotification = "newMessageNotification"
	EventNotification           = "notification"
	EventOnlineUsers            = "getOnlineUsers"
)

// UserSummary is the slice of a user profile embedded in notification payloads.
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

// NotificationPayload covers both message-received and like/dislike
// notifications; PostID is empty for message notifications.
type NotificationPayload struct {
	Type        string      `json:"type"`
	UserID      string      `json:"userId"`
	UserDetails UserSummary `json:"userDetails"`
	PostID      string      `json:"postId,omitempty"`
	Message     string      `json:"message"`
}

// Event is a named payload pushed over a live connection.
type Event struct {
	Name    string
	Payload any
}

// NewMessage carries a freshly persisted message to its recipient.
func NewMessage(msg any) Event {
	return Event{Name: EventNewMessage, Payload: msg}
}

// MessageNotification tells the recipient a new message arrived, without the body.
func MessageNotification(sender UserSummary, text string) Event {
	return Event{Name: EventNewMessageNotification, Payload: NotificationPayload{
		Type:        "message",
		UserID:      sender.ID,
		UserDetails: sender,
		Message:     text,
	}}
}

// ReactionNotification tells a post author their post was liked or disliked.
// kind is "like" or "dislike".
func ReactionNotification(kind string, actor UserSummary, postID, text string) Event {
	return Event{Name: EventNotification, Payload: NotificationPayload{
		Type:        kind,
		UserID:      actor.ID,
		UserDetails: actor,
		PostID:      postID,
		Message:     text,
	}}
}

func onlineUsers(ids []string) Event {
	return Event{Name: EventOnlineUsers, Payload: ids}
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(envelope{Event: e.Name, Payload: e.Payload})
}
