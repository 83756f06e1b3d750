package social_test

import (
	"testing"

	"thangka-gallery/internal/domain/social"

	"gorm.io/gorm"
)

func mustToggle(t *testing.T, db *gorm.DB, kind social.Kind, actor, target uint) social.ToggleResult {
	t.Helper()
	res, err := social.Toggle(db, kind, actor, target)
	if err != nil {
		t.Fatalf("toggle %s %d->%d: %v", kind, actor, target, err)
	}
	return res
}
