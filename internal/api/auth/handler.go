package auth

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+\-]+$`)

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

type RegisterRequest struct {
	Username  string `form:"username" json:"username" binding:"required,max=150"`
	Email     string `form:"email" json:"email" binding:"omitempty,email"`
	Password1 string `form:"password1" json:"password1" binding:"required"`
	Password2 string `form:"password2" json:"password2" binding:"required"`
}

// GET /register/
func RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": []string{"username", "email", "password1", "password2"}})
}

// POST /register/
func Register(c *gin.Context) {
	var input RegisterRequest
	if err := c.ShouldBind(&input); err != nil {
		respond.Invalid(c, respond.BindError(err))
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	verr := &errs.ValidationError{}
	if !usernamePattern.MatchString(input.Username) {
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if !isPasswordStrong(input.Password1) {
		verr.Add("password1", "Password must be at least 8 characters long and contain both letters and numbers")
	}
	if input.Password1 != input.Password2 {
		verr.Add("password2", "The two password fields didn't match.")
	}
	if err := verr.OrNil(); err != nil {
		respond.Error(c, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password1), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(c, err)
		return
	}
	hashed := string(hashedPassword)

	user := users.User{
		Username:     input.Username,
		Email:        strings.TrimSpace(input.Email),
		Password:     &hashed,
		AuthProvider: users.ProviderLocal,
		Role:         users.RoleUser,
	}

	// ✅ User + Artist profile together or not at all
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&users.User{}).Where("username = ?", user.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errs.NewValidation("username", "A user with that username already exists.")
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		_, err := artists.EnsureForUser(tx, &user)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	logging.FromContext(c).Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	c.Redirect(http.StatusSeeOther, "/login/")
}

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// GET /login/
func LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "password"},
		"next":   SafeNext(c.Query("next"), DefaultLoginNext),
	})
}

// POST /login/
func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBind(&input); err != nil {
		respond.Invalid(c, respond.BindError(err))
		return
	}

	var user users.User
	err := database.DB.Where("username = ?", strings.TrimSpace(input.Username)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respond.Error(c, err)
		return
	}
	if err != nil || user.Password == nil || *user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)) != nil {
		respond.Invalid(c, errs.NewValidation("__all__", "Please enter a correct username and password."))
		return
	}

	token, err := IssueToken(user)
	if err != nil {
		respond.Error(c, err)
		return
	}
	setSessionCookie(c, token)

	next := input.Next
	if next == "" {
		next = c.Query("next")
	}
	c.Redirect(http.StatusSeeOther, SafeNext(next, DefaultLoginNext))
}

// GET /logout/
func Logout(c *gin.Context) {
	clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}
