package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pixelgram/pixelgram/internal/notify"
)

func (h *Handler) AddPost(ctx *gin.Context) {
	me, _ := currentUser(ctx)

	var req struct {
		Caption string `json:"caption"`
		Image   string `json:"image" validate:"required,url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Image == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Image is required", "success": false})
		return
	}
	if !h.val.ValidateStruct(ctx, &req) {
		return
	}

	postID := uuid.NewString()
	_, err := h.pool.Exec(ctx,
		`INSERT INTO posts (id, author_id, caption, image) VALUES ($1, $2, $3, $4)`,
		postID, me.ID, req.Caption, req.Image)
	if err != nil {
		h.log.Error("add post", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong while creating post", "success": false})
		return
	}

	created, err := h.getPost(ctx, postID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong while creating post", "success": false})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Post added successfully", "post": created, "success": true})
}

func (h *Handler) GetAllPosts(ctx *gin.Context) {
	posts, err := h.listPosts(ctx, ``)
	if err != nil {
		h.log.Error("list posts", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "All posts fetched successfully", "posts": posts, "success": true})
}

func (h *Handler) GetUserPosts(ctx *gin.Context) {
	me, _ := currentUser(ctx)
	posts, err := h.listPosts(ctx, `WHERE p.author_id = $1`, me.ID)
	if err != nil {
		h.log.Error("list user posts", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User posts fetched successfully", "posts": posts, "success": true})
}

func (h *Handler) LikePost(ctx *gin.Context) {
	h.reactToPost(ctx, "like")
}

func (h *Handler) DislikePost(ctx *gin.Context) {
	h.reactToPost(ctx, "dislike")
}

// reactToPost applies the durable like/unlike write, then fans out the
// realtime notification. The notification is fire and forget: an offline
// author never affects the response.
func (h *Handler) reactToPost(ctx *gin.Context, kind string) {
	me, _ := currentUser(ctx)
	postID := ctx.Param("id")

	var authorID string
	err := h.pool.QueryRow(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Post not found", "success": false})
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	if kind == "like" {
		_, err = h.pool.Exec(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, me.ID)
	} else {
		_, err = h.pool.Exec(ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, me.ID)
	}
	if err != nil {
		h.log.Error("post reaction", "kind", kind, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	actor, err := h.userSummaryByID(ctx, me.ID)
	if err == nil {
		notify.PostReaction(h.hub, kind, actor.realtime(), authorID, postID)
	}

	if kind == "like" {
		ctx.JSON(http.StatusOK, gin.H{"message": "Post liked successfully", "success": true})
	} else {
		ctx.JSON(http.StatusOK, gin.H{"message": "Post disliked successfully", "success": true})
	}
}

func (h *Handler) AddComment(ctx *gin.Context) {
	me, _ := currentUser(ctx)
	postID := ctx.Param("id")

	var req struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Text == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required", "success": false})
		return
	}

	var exists bool
	if err := h.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil || !exists {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Post not found", "success": false})
		return
	}

	c := comment{
		ID:     uuid.NewString(),
		PostID: postID,
		Text:   req.Text,
	}
	row := h.pool.QueryRow(ctx,
		`INSERT INTO comments (id, post_id, author_id, text) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		c.ID, postID, me.ID, req.Text)
	if err := row.Scan(&c.CreatedAt); err != nil {
		h.log.Error("add comment", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	author, err := h.userSummaryByID(ctx, me.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}
	c.Author = author

	ctx.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully", "comment": c, "success": true})
}

func (h *Handler) GetPostComments(ctx *gin.Context) {
	comments, err := h.listComments(ctx, ctx.Param("id"))
	if err != nil {
		h.log.Error("list comments", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Comments fetched successfully", "comments": comments, "success": true})
}

func (h *Handler) DeletePost(ctx *gin.Context) {
	me, _ := currentUser(ctx)
	postID := ctx.Param("id")

	var authorID string
	err := h.pool.QueryRow(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Post not found", "success": false})
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	if authorID != me.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized access", "success": false})
		return
	}

	// comments, likes, bookmarks cascade
	if _, err := h.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
		h.log.Error("delete post", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully", "success": true})
}

func (h *Handler) BookmarkPost(ctx *gin.Context) {
	me, _ := currentUser(ctx)
	postID := ctx.Param("id")

	var exists bool
	if err := h.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil || !exists {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Post not found", "success": false})
		return
	}

	var bookmarked bool
	if err := h.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2)`, me.ID, postID).Scan(&bookmarked); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}

	if bookmarked {
		if _, err := h.pool.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, me.ID, postID); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"type": "unsaved", "message": "Post removed from bookmark successfully", "success": true})
		return
	}

	if _, err := h.pool.Exec(ctx,
		`INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, me.ID, postID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "success": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"type": "saved", "message": "Post added to bookmark successfully", "success": true})
}

func (h *Handler) getPost(ctx *gin.Context, postID string) (*post, error) {
	posts, err := h.listPosts(ctx, `WHERE p.id = $1`, postID)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &posts[0], nil
}

// listPosts fetches posts with author, likes, and comments populated.
// clause is appended to the base query and may join extra tables.
func (h *Handler) listPosts(ctx *gin.Context, clause string, args ...any) ([]post, error) {
	query := `SELECT p.id, p.caption, p.image, p.created_at, u.id, u.username, u.profile_picture
		FROM posts p JOIN users u ON u.id = p.author_id ` + clause + ` ORDER BY p.created_at DESC`

	rows, err := h.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []post{}
	for rows.Next() {
		var p post
		if err := rows.Scan(&p.ID, &p.Caption, &p.Image, &p.CreatedAt,
			&p.Author.ID, &p.Author.Username, &p.Author.ProfilePicture); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].Likes, err = h.listLikes(ctx, posts[i].ID); err != nil {
			return nil, err
		}
		if posts[i].Comments, err = h.listComments(ctx, posts[i].ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (h *Handler) listLikes(ctx *gin.Context, postID string) ([]string, error) {
	rows, err := h.pool.Query(ctx, `SELECT user_id FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		likes = append(likes, id)
	}
	return likes, rows.Err()
}

func (h *Handler) listComments(ctx *gin.Context, postID string) ([]comment, error) {
	rows, err := h.pool.Query(ctx,
		`SELECT c.id, c.post_id, c.text, c.created_at, u.id, u.username, u.profile_picture
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1 ORDER BY c.created_at DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []comment{}
	for rows.Next() {
		var c comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Text, &c.CreatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.ProfilePicture); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
