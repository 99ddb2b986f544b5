package middleware

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixelgram/pixelgram/internal/auth"
)

type Auth struct {
	service *auth.Service
	pool    *pgxpool.Pool
}

// UserContext is the authenticated user attached to the request context.
type UserContext struct {
	ID             string
	Username       string
	Email          string
	ProfilePicture string
}

func NewAuth(service *auth.Service, pool *pgxpool.Pool) *Auth {
	return &Auth{service: service, pool: pool}
}

// Middleware authenticates via the "token" cookie set at login, falling
// back to a bearer Authorization header for non-browser clients.
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, _ := ctx.Cookie("token")
		if token == "" {
			header := ctx.GetHeader("Authorization")
			if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
				token = parts[1]
			}
		}
		if token == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated", "success": false})
			ctx.Abort()
			return
		}

		claims, err := a.service.Verify(token)
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token", "success": false})
			ctx.Abort()
			return
		}

		var user UserContext
		row := a.pool.QueryRow(ctx, `SELECT id, username, email, profile_picture FROM users WHERE id = $1`, claims.UserID)
		if scanErr := row.Scan(&user.ID, &user.Username, &user.Email, &user.ProfilePicture); scanErr != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not found", "success": false})
			ctx.Abort()
			return
		}

		ctx.Set("user", user)
		ctx.Next()
	}
}
