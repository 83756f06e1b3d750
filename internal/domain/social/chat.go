package social

import (
	"errors"
	"fmt"
	"strings"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/domain/users"

	"gorm.io/gorm"
)

const (
	ThreadLimit     = 200
	maxMessageRunes = 4000
)

// Send appends a chat message. A direct message also lands in the recipient's
// notification feed.
func Send(db *gorm.DB, sender *users.User, recipientID *uint, body string) (*ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errs.NewValidation("message", "This field is required.")
	}
	if len([]rune(body)) > maxMessageRunes {
		return nil, errs.NewValidation("message", "Message is too long.")
	}
	if recipientID != nil && *recipientID == sender.ID {
		return nil, fmt.Errorf("%w: cannot message yourself", errs.ErrInvalidOperation)
	}

	msg := ChatMessage{SenderID: sender.ID, RecipientID: recipientID, Message: body}
	err := db.Transaction(func(tx *gorm.DB) error {
		if recipientID != nil {
			var n int64
			if err := tx.Model(&users.User{}).Where("id = ?", *recipientID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errs.ErrNotFound
			}
		}

		if err := tx.Omit("Sender", "Recipient").Create(&msg).Error; err != nil {
			return err
		}
		if recipientID == nil {
			return nil
		}

		sid := sender.ID
		preview := []rune(body)
		if len(preview) > 80 {
			preview = append(preview[:80], '…')
		}
		return notifications.Notify(tx, &notifications.Notification{
			UserID:  *recipientID,
			ActorID: &sid,
			Type:    notifications.TypeMessage,
			Message: fmt.Sprintf("%s: %s", sender.Username, string(preview)),
		})
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Thread returns the messages between a and b, oldest first.
func Thread(db *gorm.DB, a, b uint, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = ThreadLimit
	}
	var out []ChatMessage
	err := db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Recent returns the latest messages involving the user, newest first.
func Recent(db *gorm.DB, userID uint, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []ChatMessage
	err := db.
		Where("sender_id = ? OR recipient_id = ? OR recipient_id IS NULL", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func LoadUser(db *gorm.DB, id uint) (*users.User, error) {
	var u users.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
