package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robmiller/expurgate/utils/json"
)

func setupCacheDir(t *testing.T, key string) string {
	t.Helper()
	dir := t.TempDir()
	if key != "" {
		if err := os.WriteFile(filepath.Join(dir, "secret.key"), []byte(key), 0o600); err != nil {
			t.Fatalf("write key: %v", err)
		}
	}
	t.Setenv("CACHE_DIR", dir)
	t.Setenv("CACHE_BACKEND", "fs")
	t.Setenv("CACHE_KEY_FILE", "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	_ = checksumCmd.Flags().Set("query", "false")
	_ = versionCmd.Flags().Set("short", "false")
	_ = versionCmd.Flags().Set("json", "false")

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestChecksumCommand(t *testing.T) {
	setupCacheDir(t, "k\n")

	out, err := execute(t, "checksum", "http://example.com/a.png")
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}

	want := "99f2c7779481328f496500a8eff64968172a5a17fb44ac062e89087a272a1ce5"
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("checksum = %q, want %q", got, want)
	}
}

func TestChecksumCommand_Query(t *testing.T) {
	setupCacheDir(t, "k")

	out, err := execute(t, "checksum", "--query", "http://example.com/a.png")
	if err != nil {
		t.Fatalf("checksum --query failed: %v", err)
	}
	if !strings.Contains(out, "checksum=99f2c7779481328f496500a8eff64968172a5a17fb44ac062e89087a272a1ce5") {
		t.Errorf("query output missing checksum: %s", out)
	}
	if !strings.Contains(out, "url=http%3A%2F%2Fexample.com%2Fa.png") {
		t.Errorf("query output missing encoded url: %s", out)
	}
}

func TestChecksumCommand_MissingKey(t *testing.T) {
	setupCacheDir(t, "")

	if _, err := execute(t, "checksum", "http://example.com/a.png"); err == nil {
		t.Fatal("expected an error without a key file")
	}
}

func TestSweepCommand(t *testing.T) {
	dir := setupCacheDir(t, "k")
	t.Setenv("CACHE_MAX_AGE", "1h")

	stale := filepath.Join(dir, strings.Repeat("a", 64)+".json")
	if err := os.WriteFile(stale, []byte(`{"mime_type":"image/png","image_data":"iVBORw=="}`), 0o600); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, err := execute(t, "sweep")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !strings.Contains(out, "expired: 1") || !strings.Contains(out, "entries: 0") {
		t.Errorf("unexpected sweep output:\n%s", out)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale entry was not removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "secret.key")); err != nil {
		t.Error("sweep must not touch the key file")
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	SetBuildInfo("abc1234", "2026-01-01T00:00:00Z")

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, field := range []string{"1.2.3", "commit:", "built:", "go version:", "platform:"} {
		if !strings.Contains(out, field) {
			t.Errorf("version output missing %q:\n%s", field, out)
		}
	}

	out, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info["commit"] != "abc1234" {
		t.Errorf("commit = %q", info["commit"])
	}
}
