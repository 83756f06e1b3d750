package contact

import (
	"net/http"
	"strings"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	"thangka-gallery/internal/domain/contact"
	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
)

type MessageRequest struct {
	Name    string `form:"name" json:"name" binding:"required,max=140"`
	Email   string `form:"email" json:"email" binding:"required,email,max=254"`
	Subject string `form:"subject" json:"subject" binding:"max=180"`
	Message string `form:"message" json:"message" binding:"required,max=5000"`
}

// GET /contact/
func Page(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": []string{"name", "email", "subject", "message"}})
}

// POST /contact/
func Submit(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Invalid(c, respond.BindError(err))
		return
	}

	msg := contact.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		respond.Error(c, err)
		return
	}

	logging.FromContext(c).Info().Uint("contact_id", msg.ID).Msg("contact message received")
	c.Redirect(http.StatusSeeOther, "/")
}
