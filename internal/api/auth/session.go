package auth

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"thangka-gallery/config"
	"thangka-gallery/internal/app/http/middleware"
	"thangka-gallery/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionTTL       = 14 * 24 * time.Hour
	DefaultLoginNext = "/artist/"
)

func IssueToken(user users.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(sessionTTL).Unix(),
	})
	return t.SignedString([]byte(config.App.JWTSecret))
}

func secureCookies() bool {
	return strings.HasPrefix(config.App.SiteURL, "https://")
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(sessionTTL.Seconds()), "/", "", secureCookies(), true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", secureCookies(), true)
}

// SafeNext accepts only same-site relative paths.
// "/chat/?user=3" -> ok, "//evil.example" or "https://evil.example" -> fallback.
func SafeNext(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
