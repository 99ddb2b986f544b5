package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type userProfile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio"`
	Gender         string    `json:"gender"`
	ProfilePicture string    `json:"profilePicture"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	Posts          []post    `json:"posts"`
	Bookmarks      []post    `json:"bookmarks"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (h *Handler) Register(ctx *gin.Context) {
	var req struct {
		Username       string `json:"username"`
		Email          string `json:"email"`
		Password       string `json:"password"`
		Bio            string `json:"bio"`
		Gender         string `json:"gender"`
		ProfilePicture string `json:"profilePicture"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Something is missing", "success": false})
		return
	}

	var existingID string
	err := h.pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, req.Email).Scan(&existingID)
	if err == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User already registered", "success": false})
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		h.log.Error("register lookup", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	userID := uuid.NewString()
	_, err = h.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password, bio, gender, profile_picture) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, strings.ToLower(req.Username), req.Email, string(hashed), req.Bio, req.Gender, req.ProfilePicture)
	if err != nil {
		h.log.Error("register insert", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong while registering user", "success": false})
		return
	}

	user, err := h.loadProfile(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong while registering user", "success": false})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":     "User registered successfully",
		"createdUser": user,
		"success":     true,
	})
}

func (h *Handler) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Something is missing", "success": false})
		return
	}

	var (
		userID   string
		password string
	)
	err := h.pool.QueryRow(ctx, `SELECT id, password FROM users WHERE email = $1`, req.Email).Scan(&userID, &password)
	if errors.Is(err, pgx.ErrNoRows) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User doesn't exist", "success": false})
		return
	} else if err != nil {
		h.log.Error("login lookup", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)) != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect password", "success": false})
		return
	}

	token, err := h.auth.Sign(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	user, err := h.loadProfile(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie("token", token, int(h.auth.TokenTTL().Seconds()), "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Welcome back " + user.Username,
		"user":    user,
		"success": true,
	})
}

func (h *Handler) Logout(ctx *gin.Context) {
	ctx.SetCookie("token", "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out succesfully", "success": true})
}

func (h *Handler) GetProfile(ctx *gin.Context) {
	user, err := h.loadProfile(ctx, ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found", "success": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User fetched successfully", "user": user, "success": true})
}

func (h *Handler) EditProfile(ctx *gin.Context) {
	me, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated", "success": false})
		return
	}

	var req struct {
		Bio            *string `json:"bio"`
		Gender         *string `json:"gender"`
		ProfilePicture *string `json:"profilePicture"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No fields provided for update", "success": false})
		return
	}
	if req.Bio == nil && req.Gender == nil && req.ProfilePicture == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No fields provided for update", "success": false})
		return
	}

	_, err := h.pool.Exec(ctx,
		`UPDATE users SET
			bio = COALESCE($2, bio),
			gender = COALESCE($3, gender),
			profile_picture = COALESCE($4, profile_picture)
		WHERE id = $1`,
		me.ID, req.Bio, req.Gender, req.ProfilePicture)
	if err != nil {
		h.log.Error("edit profile", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user profile", "success": false})
		return
	}

	user, err := h.loadProfile(ctx, me.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user profile", "success": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user, "success": true})
}

func (h *Handler) SuggestedUsers(ctx *gin.Context) {
	me, _ := currentUser(ctx)

	rows, err := h.pool.Query(ctx,
		`SELECT id, username, bio, profile_picture FROM users WHERE id <> $1 ORDER BY created_at DESC`, me.ID)
	if err != nil {
		h.log.Error("suggested users", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}
	defer rows.Close()

	type suggested struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		Bio            string `json:"bio"`
		ProfilePicture string `json:"profilePicture"`
	}
	users := []suggested{}
	for rows.Next() {
		var u suggested
		if err := rows.Scan(&u.ID, &u.Username, &u.Bio, &u.ProfilePicture); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
			return
		}
		users = append(users, u)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Suggested users fetched successfully", "users": users, "success": true})
}

func (h *Handler) FollowOrUnfollow(ctx *gin.Context) {
	me, _ := currentUser(ctx)
	targetID := ctx.Param("id")

	if me.ID == targetID {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Can not follow yourself", "success": false})
		return
	}

	var exists bool
	if err := h.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, targetID).Scan(&exists); err != nil || !exists {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found", "success": false})
		return
	}

	var following bool
	if err := h.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`, me.ID, targetID).Scan(&following); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	if following {
		if _, err := h.pool.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, me.ID, targetID); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully", "type": "unfollow", "success": true})
		return
	}

	if _, err := h.pool.Exec(ctx,
		`INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, me.ID, targetID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Followed successfully", "type": "follow", "success": true})
}

func (h *Handler) loadProfile(ctx *gin.Context, userID string) (*userProfile, error) {
	u := &userProfile{
		Followers: []string{},
		Following: []string{},
		Posts:     []post{},
		Bookmarks: []post{},
	}
	row := h.pool.QueryRow(ctx,
		`SELECT id, username, email, bio, gender, profile_picture, created_at FROM users WHERE id = $1`, userID)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Bio, &u.Gender, &u.ProfilePicture, &u.CreatedAt); err != nil {
		return nil, err
	}

	rows, err := h.pool.Query(ctx, `SELECT follower_id FROM follows WHERE followee_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		u.Followers = append(u.Followers, id)
	}
	rows.Close()

	rows, err = h.pool.Query(ctx, `SELECT followee_id FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		u.Following = append(u.Following, id)
	}
	rows.Close()

	if u.Posts, err = h.listPosts(ctx, `WHERE p.author_id = $1`, userID); err != nil {
		return nil, err
	}
	if u.Bookmarks, err = h.listPosts(ctx,
		`JOIN bookmarks b ON b.post_id = p.id WHERE b.user_id = $1`, userID); err != nil {
		return nil, err
	}
	return u, nil
}
