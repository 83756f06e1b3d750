package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost/gallery")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Storage.Driver != "local" || cfg.Storage.MediaURL != "/media" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.SubmitWindow != 10*time.Minute || cfg.SubmitLimit != 5 {
		t.Errorf("submit quota = %d per %s", cfg.SubmitLimit, cfg.SubmitWindow)
	}
	if cfg.Google.Enabled() || cfg.SMTP.Enabled() {
		t.Error("optional integrations should be off without env")
	}
}

func TestLoadFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY_ID", "key")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "secret")
	t.Setenv("SUBMIT_WINDOW", "30s")
	t.Setenv("TOGGLE_RATE", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.MinIO.Endpoint != "localhost:9000" || cfg.MinIO.Bucket != "artworks" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SubmitWindow != 30*time.Second || cfg.ToggleRate != 2.5 {
		t.Errorf("window = %s, rate = %v", cfg.SubmitWindow, cfg.ToggleRate)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"no db", map[string]string{"DB_URL": "", "JWT_SECRET": "x"}, "DB_URL"},
		{"no secret", map[string]string{"DB_URL": "x", "JWT_SECRET": ""}, "JWT_SECRET"},
		{"bad driver", map[string]string{"DB_URL": "x", "JWT_SECRET": "x", "STORAGE_DRIVER": "ftp"}, "STORAGE_DRIVER"},
		{"minio without creds", map[string]string{"DB_URL": "x", "JWT_SECRET": "x", "STORAGE_DRIVER": "minio"}, "MINIO_ENDPOINT"},
		{"zero burst", map[string]string{"DB_URL": "x", "JWT_SECRET": "x", "TOGGLE_BURST": "0"}, "TOGGLE_BURST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}
