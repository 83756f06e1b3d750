package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"thangka-gallery/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "session"

// Session holds the claims of a valid session token.
type Session struct {
	UserID   uint
	Username string
	Role     string
}

// ParseToken validates an HS256 session token.
func ParseToken(tokenString string) (*Session, error) {
	jwtKey := []byte(config.App.JWTSecret)
	if len(jwtKey) == 0 {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	s := &Session{}
	if userIDFloat, ok := claims["user_id"].(float64); ok {
		s.UserID = uint(userIDFloat)
	}
	s.Username, _ = claims["username"].(string)
	s.Role, _ = claims["role"].(string)
	if s.UserID == 0 {
		return nil, fmt.Errorf("token has no user")
	}
	return s, nil
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if tokenString := strings.TrimPrefix(authHeader, "Bearer "); tokenString != authHeader {
			return strings.TrimSpace(tokenString)
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// LoadSession puts user_id, username and role on the context when the request
// carries a valid session cookie or bearer token. It never aborts.
func LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := tokenFromRequest(c); raw != "" {
			if s, err := ParseToken(raw); err == nil {
				c.Set("user_id", s.UserID)
				c.Set("username", s.Username)
				c.Set("role", s.Role)
			}
		}
		c.Next()
	}
}

// LoginRequired sends anonymous page requests to the login page, keeping the
// original path in ?next=.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetUint("user_id") == 0 {
			next := c.Request.URL.RequestURI()
			c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(next))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthMiddleware is the API variant of LoginRequired: 401 JSON instead of a
// redirect.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetUint("user_id") == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Authentication required"})
			return
		}
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists || c.GetUint("user_id") == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Authentication required"})
			return
		}

		if value != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "Access denied"})
			return
		}

		c.Next()
	}
}
