package preflight

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"avtranscribe/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read/write ok") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
	if got := CheckDirectoryAccess("test", dir, false); !strings.Contains(got.Detail, "(read ok)") {
		t.Fatalf("unexpected read-only detail %q", got.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, false)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllLocalBackends(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := RunAll(context.Background(), cfg)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	want := "Source directory,Local stage,Results database,Export directory"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("checks = %s, want %s", got, want)
	}
	if Failed(results) != 3 {
		t.Fatalf("expected source, stage and export to fail before creation, got %+v", results)
	}

	for _, dir := range []string{cfg.Stage.SourceDir, cfg.Stage.Local.Dir, cfg.Export.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if n := Failed(RunAll(context.Background(), cfg)); n != 0 {
		t.Fatalf("expected all checks to pass, %d failed", n)
	}
}

func TestRunAllChecksPrivateKeyForWarehouse(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWarehouse("acct", "svc"))

	result := findResult(t, RunAll(context.Background(), cfg), "Private key")
	if result.Passed {
		t.Fatal("expected missing key to fail")
	}

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	if err := os.WriteFile(cfg.Warehouse.PrivateKeyPath, data, 0o600); err != nil {
		t.Fatal(err)
	}
	result = findResult(t, RunAll(context.Background(), cfg), "Private key")
	if !result.Passed || !strings.Contains(result.Detail, "RSA 1024 bits") {
		t.Fatalf("unexpected key result %+v", result)
	}
}

func findResult(t *testing.T, results []Result, name string) Result {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no %q check in %+v", name, results)
	return Result{}
}
