// Package testutil sets up an in-memory store shared by package tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"strings"
	"testing"
	"time"

	"thangka-gallery/config"
	"thangka-gallery/database"
	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"
	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test-secret"

// SetupDB opens a fresh in-memory SQLite database with foreign keys on,
// migrates it and installs it as database.DB for the test's lifetime.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logging.Init(logging.Config{Output: io.Discard})

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection: every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prevDB, prevCfg := database.DB, config.App
	database.DB = db
	config.App.JWTSecret = JWTSecret
	config.App.ToggleRate = 1000
	config.App.ToggleBurst = 1000
	t.Cleanup(func() {
		database.DB = prevDB
		config.App = prevCfg
		_ = sqlDB.Close()
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *users.User {
	t.Helper()
	u := &users.User{
		Username:     username,
		Email:        username + "@example.com",
		AuthProvider: users.ProviderLocal,
		Role:         users.RoleUser,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateArtist creates a user with a linked artist profile.
func CreateArtist(t *testing.T, db *gorm.DB, username string) (*users.User, *artists.Artist) {
	t.Helper()
	u := CreateUser(t, db, username)
	a, err := artists.EnsureForUser(db, u)
	if err != nil {
		t.Fatalf("create artist %s: %v", username, err)
	}
	return u, a
}

type ArtworkOpts struct {
	Artist      *artists.Artist
	Category    *works.Category
	Tags        []works.Tag
	Published   bool
	Featured    bool
	Materials   string
	Description string
	CreatedAt   time.Time
	ViewCount   uint
}

func CreateArtwork(t *testing.T, db *gorm.DB, title string, o ArtworkOpts) *works.Artwork {
	t.Helper()
	created := o.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	slug, err := works.UniqueSlug(db, &works.Artwork{}, works.ArtworkSlugBase(title, created.Year()))
	if err != nil {
		t.Fatalf("slug: %v", err)
	}
	mat := o.Materials
	if mat == "" {
		mat = works.MaterialOther
	}

	a := &works.Artwork{
		Title:       title,
		Slug:        slug,
		Description: o.Description,
		Materials:   mat,
		IsPublished: o.Published,
		IsFeatured:  o.Featured,
		ViewCount:   o.ViewCount,
		Tags:        o.Tags,
		CreatedAt:   created,
	}
	if o.Artist != nil {
		id := o.Artist.ID
		a.ArtistID = &id
	}
	if o.Category != nil {
		id := o.Category.ID
		a.CategoryID = &id
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("create artwork %s: %v", title, err)
	}
	return a
}

// PNGHeader returns a PNG signature plus an IHDR chunk declaring w x h, with
// no pixel data behind it.
func PNGHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 6, 0, 0, 0) // 8-bit RGBA, no interlace

	_ = binary.Write(&buf, binary.BigEndian, uint32(len(chunk)-4))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}
