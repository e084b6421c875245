package warehouse_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sf "github.com/snowflakedb/gosnowflake"

	"avtranscribe/internal/config"
	"avtranscribe/internal/services"
	"avtranscribe/internal/warehouse"
)

func writeKey(t *testing.T, blockType string, der []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rsa_key.p8")
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestLoadPrivateKeyPKCS8(t *testing.T) {
	key := newKey(t)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := warehouse.LoadPrivateKey(writeKey(t, "PRIVATE KEY", der))
	if err != nil {
		t.Fatalf("LoadPrivateKey: %v", err)
	}
	if !loaded.Equal(key) {
		t.Fatal("loaded key differs")
	}
}

func TestLoadPrivateKeyPKCS1Fallback(t *testing.T) {
	key := newKey(t)
	loaded, err := warehouse.LoadPrivateKey(writeKey(t, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key)))
	if err != nil {
		t.Fatalf("LoadPrivateKey: %v", err)
	}
	if !loaded.Equal(key) {
		t.Fatal("loaded key differs")
	}
}

func TestLoadPrivateKeyMissingIsConfigurationError(t *testing.T) {
	_, err := warehouse.LoadPrivateKey(filepath.Join(t.TempDir(), "absent.p8"))
	if !errors.Is(err, services.ErrConfiguration) || !services.IsFatal(err) {
		t.Fatalf("expected fatal configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "openssl genrsa") {
		t.Fatalf("expected key generation hint, got %v", err)
	}
}

func TestParsePrivateKeyRejectsGarbage(t *testing.T) {
	if _, err := warehouse.ParsePrivateKey([]byte("not pem")); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1, 2, 3}})
	if _, err := warehouse.ParsePrivateKey(block); err == nil {
		t.Fatal("expected error for invalid DER")
	}
}

func TestDriverConfigUsesKeyPairAuth(t *testing.T) {
	key := newKey(t)
	cfg := warehouse.DriverConfig(config.Warehouse{
		Account:             "acme-xy1",
		User:                "svc",
		Role:                "TRANSCRIBER",
		Warehouse:           "WH",
		Database:            "MEDIA",
		Schema:              "PUBLIC",
		LoginTimeoutSeconds: 30,
	}, key)
	if cfg.Authenticator != sf.AuthTypeJwt {
		t.Fatalf("authenticator = %v", cfg.Authenticator)
	}
	if cfg.PrivateKey != key || cfg.Account != "acme-xy1" || cfg.Schema != "PUBLIC" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LoginTimeout != 30*time.Second {
		t.Fatalf("login timeout = %v", cfg.LoginTimeout)
	}
}

func TestQualifiedName(t *testing.T) {
	got, err := warehouse.QualifiedName("MEDIA", "", "PUBLIC", "TRANSCRIPTION_RESULTS")
	if err != nil || got != "MEDIA.PUBLIC.TRANSCRIPTION_RESULTS" {
		t.Fatalf("QualifiedName = %q, %v", got, err)
	}
	for _, bad := range [][]string{{}, {"a.b"}, {"x;y"}, {"MEDIA", "1x"}} {
		if _, err := warehouse.QualifiedName(bad...); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("QualifiedName(%v) should fail validation, got %v", bad, err)
		}
	}
}
