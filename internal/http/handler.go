package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixelgram/pixelgram/internal/auth"
	"github.com/pixelgram/pixelgram/internal/cache"
	"github.com/pixelgram/pixelgram/internal/config"
	"github.com/pixelgram/pixelgram/internal/http/middleware"
	"github.com/pixelgram/pixelgram/internal/realtime"
	"github.com/pixelgram/pixelgram/internal/validation"
)

type Handler struct {
	pool  *pgxpool.Pool
	auth  *auth.Service
	cfg   config.Config
	log   *slog.Logger
	hub   *realtime.Hub
	cache *cache.Messages
	val   *validation.Validator
}

func NewHandler(pool *pgxpool.Pool, authSvc *auth.Service, cfg config.Config, log *slog.Logger, hub *realtime.Hub, msgCache *cache.Messages) *Handler {
	return &Handler{
		pool:  pool,
		auth:  authSvc,
		cfg:   cfg,
		log:   log,
		hub:   hub,
		cache: msgCache,
		val:   validation.New(),
	}
}

func currentUser(ctx *gin.Context) (middleware.UserContext, bool) {
	val, ok := ctx.Get("user")
	if !ok {
		return middleware.UserContext{}, false
	}
	user, ok := val.(middleware.UserContext)
	return user, ok
}

// userSummary is the author/actor slice of a profile embedded in responses.
type userSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

func (u userSummary) realtime() realtime.UserSummary {
	return realtime.UserSummary{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

func (h *Handler) userSummaryByID(ctx *gin.Context, id string) (userSummary, error) {
	var u userSummary
	row := h.pool.QueryRow(ctx, `SELECT id, username, profile_picture FROM users WHERE id = $1`, id)
	err := row.Scan(&u.ID, &u.Username, &u.ProfilePicture)
	return u, err
}

type message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

type comment struct {
	ID        string      `json:"id"`
	PostID    string      `json:"postId"`
	Text      string      `json:"text"`
	Author    userSummary `json:"author"`
	CreatedAt time.Time   `json:"createdAt"`
}

type post struct {
	ID        string      `json:"id"`
	Caption   string      `json:"caption"`
	Image     string      `json:"image"`
	Author    userSummary `json:"author"`
	Likes     []string    `json:"likes"`
	Comments  []comment   `json:"comments"`
	CreatedAt time.Time   `json:"createdAt"`
}
