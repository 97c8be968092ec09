package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "NORTHSTAR_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "pkg", "composables")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("NORTHSTAR_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("NORTHSTAR_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	opts := DatabaseOptions{
		Name:     "northstar",
		Host:     "db",
		Port:     "5433",
		User:     "app",
		Password: "secret",
	}
	want := "host=db port=5433 user=app dbname=northstar password=secret sslmode=disable"
	if got := opts.ConnectionString(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestValidateRLS(t *testing.T) {
	c := &Configuration{RLSEnforce: "ENFORCE", Database: DatabaseOptions{User: "app"}}
	if err := c.validateRLS(); err != nil {
		t.Fatalf("validateRLS: %v", err)
	}
	if c.RLSEnforce != "enforce" {
		t.Fatalf("expected normalized mode, got %q", c.RLSEnforce)
	}

	c = &Configuration{RLSEnforce: "enforce", Database: DatabaseOptions{User: "postgres"}}
	if err := c.validateRLS(); err == nil {
		t.Fatal("expected error for superuser under enforce")
	}

	c = &Configuration{RLSEnforce: "sometimes"}
	if err := c.validateRLS(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
