package config

import "testing"

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", DriverMySQL)
	t.Setenv("DB_USER", "portal")
	t.Setenv("DB_PASS", "hunter2")
	t.Setenv("DB_HOST", "db.internal:3306")
	t.Setenv("DB_NAME", "hostel-portal")
}

func TestLoadRequiresPort(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without $PORT")
	}
}

func TestLoadRequiresDbCredsForMySQL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_USER", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without $DB_USER")
	}
}

func TestLoadMemoryDriverSkipsDbCreds(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != DriverMemory {
		t.Fatalf("expected memory driver, got %v", cfg.DBDriver)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestDSN(t *testing.T) {
	setBaseEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "portal:hunter2@tcp(db.internal:3306)/hostel-portal?tls=true&parseTime=true"
	if got := cfg.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLoadSplitsOrigins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FE_ORIGINS", "https://portal.example;http://localhost:3000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.FEOrigins) != 2 || cfg.FEOrigins[1] != "http://localhost:3000" {
		t.Fatalf("unexpected origins: %v", cfg.FEOrigins)
	}
}
