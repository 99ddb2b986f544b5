package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelgram/pixelgram/internal/http/middleware"
)

type RouterDeps struct {
	Handler *Handler
	AuthMW  *middleware.Auth
}

// NewRouter wires Gin with the REST surface of the legacy server plus the
// websocket and metrics endpoints.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	api := r.Group("/api/v1")
	registerUserRoutes(api.Group("/user"), deps)
	registerPostRoutes(api.Group("/post"), deps)
	registerMessageRoutes(api.Group("/message"), deps)

	r.GET("/ws", deps.Handler.ServeWS)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	return r
}

func registerUserRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.POST("/register", deps.Handler.Register)
	r.POST("/login", deps.Handler.Login)
	r.GET("/logout", deps.Handler.Logout)

	authed := r.Group("")
	authed.Use(deps.AuthMW.Middleware())
	authed.GET("/:id/profile", deps.Handler.GetProfile)
	authed.POST("/profile/edit", deps.Handler.EditProfile)
	authed.GET("/suggested", deps.Handler.SuggestedUsers)
	authed.GET("/followorunfollow/:id", deps.Handler.FollowOrUnfollow)
}

func registerPostRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.Use(deps.AuthMW.Middleware())
	r.POST("/addpost", deps.Handler.AddPost)
	r.GET("/all", deps.Handler.GetAllPosts)
	r.GET("/userpost/all", deps.Handler.GetUserPosts)
	r.GET("/:id/like", deps.Handler.LikePost)
	r.GET("/:id/dislike", deps.Handler.DislikePost)
	r.POST("/:id/comment", deps.Handler.AddComment)
	r.GET("/:id/comment/all", deps.Handler.GetPostComments)
	r.DELETE("/delete/:id", deps.Handler.DeletePost)
	r.GET("/:id/bookmark", deps.Handler.BookmarkPost)
}

func registerMessageRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.Use(deps.AuthMW.Middleware())
	r.POST("/send/:id", deps.Handler.SendMessage)
	r.GET("/all/:id", deps.Handler.GetMessages)
}
