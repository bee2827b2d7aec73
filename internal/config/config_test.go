package config

import (
	"testing"
)

func TestResolveDBDefaults(t *testing.T) {
	tests := []struct {
		name        string
		inContainer bool
		wantHost    string
		wantPort    string
	}{
		{
			name:        "inside container",
			inContainer: true,
			wantHost:    "db",
			wantPort:    "5432",
		},
		{
			name:        "on host",
			inContainer: false,
			wantHost:    "localhost",
			wantPort:    "5433",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port := resolveDBDefaults(tt.inContainer)
			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %q, want %q", port, tt.wantPort)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_NAME", "pictures")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBHost != "db.internal" {
		t.Errorf("DBHost = %q, want %q", cfg.DBHost, "db.internal")
	}
	if cfg.DBPort != "6432" {
		t.Errorf("DBPort = %q, want %q", cfg.DBPort, "6432")
	}
	if cfg.DBName != "pictures" {
		t.Errorf("DBName = %q, want %q", cfg.DBName, "pictures")
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9000")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.UploadDir != "images" {
		t.Errorf("UploadDir = %q, want %q", cfg.UploadDir, "images")
	}
	if cfg.StaticDir != "static" {
		t.Errorf("StaticDir = %q, want %q", cfg.StaticDir, "static")
	}
	if cfg.DBUser != "postgres" {
		t.Errorf("DBUser = %q, want %q", cfg.DBUser, "postgres")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" {
		t.Error("Expected environment-derived defaults for DBHost and DBPort")
	}
}
