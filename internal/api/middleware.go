package api

import (
	"net/http"
	"strings"

	"github.com/rriley/picoCTF/internal/auth"
	"github.com/rriley/picoCTF/internal/config"
	"github.com/rriley/picoCTF/internal/database"
	"github.com/rriley/picoCTF/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const callerKey = "caller"

// Caller is the pre-resolved identity passed into the core. The core never
// re-checks roles; handlers evaluate these preconditions and hand the result
// down, so authorization decisions stay out of the arbiter and aggregator.
type Caller struct {
	UID       string
	TID       string
	IsAdmin   bool
	IsTeacher bool
}

// CORSMiddleware provides a configurable CORS middleware.
func CORSMiddleware(cfg config.CORS) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(cfg.AllowedOrigins) == 0 {
			c.Next()
			return
		}

		origin := c.Request.Header.Get("Origin")
		allowOrigin := ""
		for _, o := range cfg.AllowedOrigins {
			if o == "*" || o == origin {
				allowOrigin = o
				break
			}
		}

		if allowOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		c.Next()
	}
}

// AuthMiddleware validates the bearer token, loads the user and stores a
// Caller in the context.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Error(c, http.StatusUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.Error(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		claims, err := auth.ValidateJWT(parts[1], secret)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		user, err := database.GetUserByID(db, claims.Subject)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, "unknown user")
			c.Abort()
			return
		}

		c.Set(callerKey, Caller{
			UID:       user.ID,
			TID:       user.TeamID,
			IsAdmin:   user.IsAdmin,
			IsTeacher: user.IsTeacher,
		})
		c.Next()
	}
}

// GetCaller returns the Caller stored by AuthMiddleware; the zero Caller if
// the route is unauthenticated.
func GetCaller(c *gin.Context) Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(Caller); ok {
			return caller
		}
	}
	return Caller{}
}

// RequireTeacher aborts unless the caller is a teacher or admin.
func RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetCaller(c)
		if !caller.IsTeacher && !caller.IsAdmin {
			util.Error(c, http.StatusForbidden, "teacher privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts unless the caller is an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetCaller(c).IsAdmin {
			util.Error(c, http.StatusForbidden, "admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}
