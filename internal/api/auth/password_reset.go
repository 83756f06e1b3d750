package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"thangka-gallery/config"
	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

const resetSent = "If the account exists, you'll receive a reset link."

func generateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// POST /password-reset/
func RequestPasswordReset(c *gin.Context) {
	var body struct {
		Email string `form:"email" json:"email" binding:"required,email"`
	}
	if err := c.ShouldBind(&body); err != nil {
		respond.Invalid(c, respond.BindError(err))
		return
	}

	var user users.User
	if err := database.DB.Where("LOWER(email) = ?", strings.ToLower(body.Email)).First(&user).Error; err != nil {
		// Don't expose whether the email exists
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": resetSent})
		return
	}

	token, err := generateToken()
	if err != nil {
		respond.Error(c, err)
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Remove any existing reset tokens for this user
		if err := tx.Where("user_id = ? AND type = ?", user.ID, users.TokenPasswordReset).
			Delete(&users.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&users.VerificationToken{
			UserID:    user.ID,
			Token:     token,
			Type:      users.TokenPasswordReset,
			ExpiresAt: time.Now().Add(resetTokenTTL),
		}).Error
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	link := strings.TrimRight(config.App.SiteURL, "/") + "/password-reset/confirm/?token=" + token
	if err := Mailer.SendPasswordReset(user.Email, link); err != nil {
		logging.FromContext(c).Error().Err(err).Uint("user_id", user.ID).Msg("failed to send reset email")
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": resetSent})
}

// POST /password-reset/confirm/
func ResetPassword(c *gin.Context) {
	var body struct {
		Token        string `form:"token" json:"token" binding:"required"`
		NewPassword1 string `form:"new_password1" json:"new_password1" binding:"required"`
		NewPassword2 string `form:"new_password2" json:"new_password2" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil {
		respond.Invalid(c, respond.BindError(err))
		return
	}

	verr := &errs.ValidationError{}
	if !isPasswordStrong(body.NewPassword1) {
		verr.Add("new_password1", "Password must be at least 8 characters with letters and numbers")
	}
	if body.NewPassword1 != body.NewPassword2 {
		verr.Add("new_password2", "The two password fields didn't match.")
	}
	if err := verr.OrNil(); err != nil {
		respond.Error(c, err)
		return
	}

	var reset users.VerificationToken
	err := database.DB.Where("token = ? AND type = ?", body.Token, users.TokenPasswordReset).First(&reset).Error
	if err != nil || reset.Expired(time.Now()) {
		respond.Invalid(c, errs.NewValidation("token", "Invalid or expired token"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword1), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(c, err)
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&users.User{}).Where("id = ?", reset.UserID).Update("password", string(hashed)).Error; err != nil {
			return err
		}
		// Remove the used token
		return tx.Delete(&reset).Error
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Password reset successful"})
}
