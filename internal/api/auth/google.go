package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"thangka-gallery/config"
	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/logging"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const (
	oauthStateCookie = "oauth_state"
	oauthNextCookie  = "oauth_next"
)

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.App.Google.ClientID,
		ClientSecret: config.App.Google.ClientSecret,
		RedirectURL:  config.App.Google.RedirectURL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func GoogleStart(c *gin.Context) {
	if !config.App.Google.Enabled() {
		respond.Fail(c, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	state, err := randomState()
	if err != nil {
		respond.Error(c, err)
		return
	}

	// state and next live in short HttpOnly cookies (5 minutes)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 300, "/", "", secureCookies(), true)
	c.SetCookie(oauthNextCookie, SafeNext(c.Query("next"), DefaultLoginNext), 300, "/", "", secureCookies(), true)

	url := googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
	c.Redirect(http.StatusFound, url)
}

// GET /auth/google/callback
func GoogleCallback(c *gin.Context) {
	if !config.App.Google.Enabled() {
		respond.Fail(c, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		respond.Fail(c, http.StatusBadRequest, "missing code/state")
		return
	}

	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || cookieState != state {
		respond.Fail(c, http.StatusBadRequest, "invalid oauth state")
		return
	}

	// exchange code -> tokens
	tok, err := googleOAuthConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		respond.Fail(c, http.StatusUnauthorized, "failed to exchange code")
		return
	}

	// Google returns an ID token (JWT) with openid scope
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		respond.Fail(c, http.StatusUnauthorized, "missing id_token")
		return
	}

	claims, err := verifyGoogleIDToken(c, rawIDToken)
	if err != nil {
		respond.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := findOrCreateGoogleUser(database.DB, claims)
	if err != nil {
		logging.FromContext(c).Error().Err(err).Msg("google sign-in failed")
		respond.Fail(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	tokenString, err := IssueToken(user)
	if err != nil {
		respond.Error(c, err)
		return
	}
	setSessionCookie(c, tokenString)

	next, _ := c.Cookie(oauthNextCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", secureCookies(), true)
	c.SetCookie(oauthNextCookie, "", -1, "/", "", secureCookies(), true)
	c.Redirect(http.StatusSeeOther, SafeNext(next, DefaultLoginNext))
}

/* ---------------- helpers ---------------- */

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

// verifyGoogleIDToken checks the signature and audience through OIDC discovery.
func verifyGoogleIDToken(c *gin.Context, rawIDToken string) (*googleIDClaims, error) {
	ctx := c.Request.Context()

	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.App.Google.ClientID,
	})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}

	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}

	return &claims, nil
}

var nonUsername = regexp.MustCompile(`[^\w.@+\-]+`)

// usernameFromEmail derives a free username from the email's local part.
func usernameFromEmail(tx *gorm.DB, email string) (string, error) {
	base := strings.SplitN(email, "@", 2)[0]
	base = nonUsername.ReplaceAllString(base, "")
	if base == "" {
		base = "artist"
	}
	if len(base) > 140 {
		base = base[:140]
	}

	name := base
	for i := 2; ; i++ {
		var n int64
		if err := tx.Model(&users.User{}).Where("username = ?", name).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return name, nil
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
}

func findOrCreateGoogleUser(db *gorm.DB, gc *googleIDClaims) (users.User, error) {
	var user users.User

	// 1) Try by google_sub
	if err := db.Where("google_sub = ?", gc.Sub).First(&user).Error; err == nil {
		return user, nil
	}

	// 2) Try by verified email, then link google_sub
	if gc.EmailVerified {
		if err := db.Where("LOWER(email) = ?", strings.ToLower(gc.Email)).First(&user).Error; err == nil {
			if user.GoogleSub == nil {
				sub := gc.Sub
				user.GoogleSub = &sub
				if err := db.Model(&user).Update("google_sub", sub).Error; err != nil {
					return users.User{}, err
				}
			}
			return user, nil
		}
	}

	// 3) Create new user + artist profile
	err := db.Transaction(func(tx *gorm.DB) error {
		username, err := usernameFromEmail(tx, gc.Email)
		if err != nil {
			return err
		}
		sub := gc.Sub
		user = users.User{
			Username:     username,
			Email:        gc.Email,
			AuthProvider: users.ProviderGoogle,
			GoogleSub:    &sub,
			Role:         users.RoleUser,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		artist, err := artists.EnsureForUser(tx, &user)
		if err != nil {
			return err
		}
		if gc.Name != "" || gc.Picture != "" {
			return tx.Model(artist).Updates(map[string]any{
				"name":       firstNonEmpty(gc.Name, gc.GivenName, username),
				"avatar_url": gc.Picture,
			}).Error
		}
		return nil
	})
	if err != nil {
		return users.User{}, err
	}
	return user, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
