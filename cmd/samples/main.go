// Command samples imports a folder of images as published artworks, one
// artwork per file, owned by an existing user or a fresh "sample_artist".
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"thangka-gallery/config"
	"thangka-gallery/database"
	"thangka-gallery/internal/domain/gallery"
	"thangka-gallery/internal/domain/media"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"
	"thangka-gallery/internal/infra/storage"
	"thangka-gallery/internal/logging"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const maxTitleRunes = 60

// GLOBAL FLAGS
var (
	sourceDir    string
	ownerName    string
	categoryName string
	dryRun       bool
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

func main() {
	rootCmd := &cobra.Command{
		Use:   "samples",
		Short: "Import sample thangka images as published artworks",
		RunE:  runImport,
	}

	rootCmd.Flags().StringVarP(&sourceDir, "dir", "d", "media/sample_thangkas", "Directory with image files")
	rootCmd.Flags().StringVarP(&ownerName, "user", "u", "", "Username owning the artworks (default: first user)")
	rootCmd.Flags().StringVarP(&categoryName, "category", "c", "", "Category name (created when missing)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be imported")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, _ []string) error {
	files, err := listImages(sourceDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no image files found in %s", sourceDir)
	}

	if dryRun {
		for _, f := range files {
			cmd.Println(titleFromFile(f), "<-", f)
		}
		return nil
	}

	config.LoadEnv()
	logging.Init(logging.Config{Level: config.App.LogLevel, Format: "console"})
	database.InitDB()

	store, err := storage.New(config.App)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	owner, err := resolveOwner(database.DB, ownerName)
	if err != nil {
		return err
	}

	var categoryID *uint
	if categoryName != "" {
		cat, err := works.EnsureCategory(database.DB, categoryName)
		if err != nil {
			return fmt.Errorf("ensure category: %w", err)
		}
		categoryID = &cat.ID
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	created := 0
	for i, f := range files {
		title := titleFromFile(f)
		img, keys, err := importImage(ctx, store, f)
		if err != nil {
			logging.Warn().Err(err).Str("file", f).Msg("skipped")
			continue
		}

		a, err := gallery.CreateArtwork(database.DB, owner, gallery.NewArtwork{
			Title:       title,
			Description: fmt.Sprintf("Sample Thangka %d imported from %s", i+1, filepath.Base(sourceDir)),
			CategoryID:  categoryID,
			IsPublished: true,
			Images:      []media.ArtworkImage{img},
		})
		if err != nil {
			_ = storage.DeleteAll(ctx, store, keys)
			return fmt.Errorf("create %q: %w", title, err)
		}
		created++
		cmd.Printf("Created artwork: %s (#%d)\n", a.Title, a.ID)
	}

	cmd.Printf("Imported %d artworks.\n", created)
	return nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// titleFromFile: "green_tara-01.jpg" -> "Green Tara-01"
func titleFromFile(p string) string {
	base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	title := cases.Title(language.English).String(strings.ReplaceAll(base, "_", " "))
	if r := []rune(title); len(r) > maxTitleRunes {
		title = string(r[:maxTitleRunes])
	}
	return strings.TrimSpace(title)
}

func importImage(ctx context.Context, store storage.Store, path string) (media.ArtworkImage, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return media.ArtworkImage{}, nil, err
	}
	return storage.PutImage(ctx, store, filepath.Base(path), "", data)
}

// resolveOwner picks the named user, else the first user, else creates
// sample_artist/password.
func resolveOwner(db *gorm.DB, name string) (*users.User, error) {
	var u users.User
	if name != "" {
		if err := db.Where("username = ?", name).First(&u).Error; err != nil {
			return nil, fmt.Errorf("user %q: %w", name, err)
		}
		return &u, nil
	}

	err := db.Order("id ASC").First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	pw := string(hashed)
	u = users.User{Username: "sample_artist", Password: &pw, AuthProvider: users.ProviderLocal, Role: users.RoleUser}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	logging.Warn().Msg("No users found, created user 'sample_artist' with password 'password'")
	return &u, nil
}
