package works

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(120);not null;uniqueIndex:idx_categories_name" json:"name"`
	Slug string `gorm:"type:varchar(140);not null;uniqueIndex:idx_categories_slug" json:"slug"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_name" json:"name"`
	Slug string `gorm:"type:varchar(60);not null;uniqueIndex:idx_tags_slug" json:"slug"`
}

// EnsureCategory finds a category by name or creates it with a unique slug.
func EnsureCategory(db *gorm.DB, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is empty")
	}

	var c Category
	err := db.Where("name = ?", name).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	base := MakeSlug(name)
	if base == "" {
		base = "category"
	}
	slug, err := UniqueSlug(db, &Category{}, base)
	if err != nil {
		return nil, err
	}
	c = Category{Name: name, Slug: slug}
	if err := db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func EnsureTag(db *gorm.DB, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tag name is empty")
	}

	var t Tag
	err := db.Where("name = ?", name).First(&t).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	base := MakeSlug(name)
	if base == "" {
		base = "tag"
	}
	slug, err := UniqueSlug(db, &Tag{}, base)
	if err != nil {
		return nil, err
	}
	t = Tag{Name: name, Slug: slug}
	if err := db.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
