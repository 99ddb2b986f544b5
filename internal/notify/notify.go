// Package notify holds the dispatch policy: which realtime events a
// completed write fans out, and to whom. All deliveries are best effort;
// nothing here can fail the HTTP request that triggered them.
package notify

import (
	"github.com/pixelgram/pixelgram/internal/realtime"
)

// Deliverer pushes one event to one user's live connection, if any.
// *realtime.Hub is the production implementation.
type Deliverer interface {
	Deliver(userID string, ev realtime.Event)
}

// MessageSent fans out a persisted direct message: the message itself plus a
// separate received-notification, both to the receiver only. The two
// deliveries are independent; the receiver disconnecting between them means
// one may land and the other silently drop. A message to oneself produces no
// events.
func MessageSent(d Deliverer, sender realtime.UserSummary, receiverID string, msg any) {
	if receiverID == sender.ID {
		return
	}
	d.Deliver(receiverID, realtime.NewMessage(msg))
	d.Deliver(receiverID, realtime.MessageNotification(sender, "New message received"))
}

// PostReaction notifies a post's author that actor liked or disliked their
// post. Callers invoke it only after the like write has been committed;
// self-reactions are suppressed. kind is "like" or "dislike".
func PostReaction(d Deliverer, kind string, actor realtime.UserSummary, authorID, postID string) {
	if authorID == actor.ID {
		return
	}
	text := "Your post was liked"
	if kind == "dislike" {
		text = "Your post was disliked"
	}
	d.Deliver(authorID, realtime.ReactionNotification(kind, actor, postID, text))
}
