package works

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

const maxSlugBase = 240

// MakeSlug generates a URL-safe slug.
// Example: "Green Tārā Mandala" -> "green-tara-mandala"
func MakeSlug(s string) string {
	// strip diacritics: decompose, then drop combining marks
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	base := strings.ToLower(strings.TrimSpace(b.String()))
	base = strings.Join(strings.Fields(base), "-")
	base = strings.ReplaceAll(base, "_", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if len(base) > maxSlugBase {
		base = strings.Trim(base[:maxSlugBase], "-")
	}
	return base
}

// ArtworkSlugBase is slugify(title) joined with the creation year.
func ArtworkSlugBase(title string, year int) string {
	base := MakeSlug(title)
	if base == "" {
		base = "artwork"
	}
	return fmt.Sprintf("%s-%d", base, year)
}

// UniqueSlug returns base, or base-2, base-3, ... whichever is not yet used in
// the given table.
func UniqueSlug(db *gorm.DB, model any, base string) (string, error) {
	if db == nil {
		return "", errors.New("db is nil")
	}
	slug := base
	for i := 2; ; i++ {
		var n int64
		if err := db.Model(model).Where("slug = ?", slug).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
