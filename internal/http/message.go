package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pixelgram/pixelgram/internal/cache"
	"github.com/pixelgram/pixelgram/internal/notify"
)

func (h *Handler) SendMessage(ctx *gin.Context) {
	me, _ := currentUser(ctx)
	receiverID := ctx.Param("id")

	var req struct {
		TextMessage string `json:"textMessage" validate:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Message text is required", "success": false})
		return
	}
	if !h.val.ValidateStruct(ctx, &req) {
		return
	}

	convID, err := h.findOrCreateConversation(ctx, me.ID, receiverID)
	if err != nil {
		h.log.Error("find or create conversation", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	msg := message{
		ID:         uuid.NewString(),
		SenderID:   me.ID,
		ReceiverID: receiverID,
		Message:    req.TextMessage,
	}
	row := h.pool.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, receiver_id, message) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		msg.ID, convID, msg.SenderID, msg.ReceiverID, msg.Message)
	if err := row.Scan(&msg.CreatedAt); err != nil {
		h.log.Error("insert message", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	if err := h.cache.Add(ctx, convID, cache.Message{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Text:       msg.Message,
		CreatedAt:  msg.CreatedAt.UnixNano(),
	}); err != nil {
		h.log.Error("cache message", "error", err)
	}

	sender, err := h.userSummaryByID(ctx, me.ID)
	if err == nil {
		notify.MessageSent(h.hub, sender.realtime(), receiverID, msg)
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Message created successfully", "newMessage": msg, "success": true})
}

func (h *Handler) GetMessages(ctx *gin.Context) {
	me, _ := currentUser(ctx)
	otherID := ctx.Param("id")

	var convID string
	err := h.pool.QueryRow(ctx,
		`SELECT id FROM conversations
		WHERE (user_a = $1 AND user_b = $2) OR (user_a = $2 AND user_b = $1)`,
		me.ID, otherID).Scan(&convID)
	if errors.Is(err, pgx.ErrNoRows) {
		ctx.JSON(http.StatusOK, gin.H{"message": "", "messages": []message{}, "success": true})
		return
	} else if err != nil {
		h.log.Error("find conversation", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	cached, err := h.cache.Recent(ctx, convID)
	if err != nil {
		h.log.Error("cache recent", "error", err)
		cached = nil
	}

	cachedIDs := make([]string, len(cached))
	msgs := make([]message, len(cached))
	for i, cm := range cached {
		cachedIDs[i] = cm.ID
		msgs[i] = message{
			ID:         cm.ID,
			SenderID:   cm.SenderID,
			ReceiverID: cm.ReceiverID,
			Message:    cm.Text,
			CreatedAt:  time.Unix(0, cm.CreatedAt).UTC(),
		}
	}

	rows, err := h.pool.Query(ctx,
		`SELECT id, sender_id, receiver_id, message, created_at FROM messages
		WHERE conversation_id = $1 AND NOT (id = ANY($2)) ORDER BY created_at`,
		convID, cachedIDs)
	if err != nil {
		h.log.Error("list messages", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}
	defer rows.Close()

	stored := []message{}
	for rows.Next() {
		var m message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Message, &m.CreatedAt); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
			return
		}
		stored = append(stored, m)
	}
	if err := rows.Err(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	// stored history first, cached hot tail after; both ascend by send time
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "All messages fetched successfully",
		"messages": append(stored, msgs...),
		"success":  true,
	})
}

// findOrCreateConversation resolves the unique conversation for an unordered
// participant pair, creating it on first contact. A concurrent create by the
// peer loses on the pair's unique index and falls back to the select.
func (h *Handler) findOrCreateConversation(ctx *gin.Context, userA, userB string) (string, error) {
	var id string
	err := h.pool.QueryRow(ctx,
		`SELECT id FROM conversations
		WHERE (user_a = $1 AND user_b = $2) OR (user_a = $2 AND user_b = $1)`,
		userA, userB).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	id = uuid.NewString()
	err = h.pool.QueryRow(ctx,
		`INSERT INTO conversations (id, user_a, user_b) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING RETURNING id`,
		id, userA, userB).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = h.pool.QueryRow(ctx,
			`SELECT id FROM conversations
			WHERE (user_a = $1 AND user_b = $2) OR (user_a = $2 AND user_b = $1)`,
			userA, userB).Scan(&id)
	}
	return id, err
}
