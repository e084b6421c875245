package warehouse

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"avtranscribe/internal/services"
)

// KeyGenerationHint explains how to create a key pair for the service user.
const KeyGenerationHint = `To generate an RSA key pair:
  openssl genrsa 2048 | openssl pkcs8 -topk8 -inform PEM -out rsa_key.p8 -nocrypt
  openssl rsa -in rsa_key.p8 -pubout -out rsa_key.pub
Then register rsa_key.pub on the warehouse user.`

// LoadPrivateKey reads an unencrypted PEM private key. PKCS#8 is tried first,
// then PKCS#1. Problems are configuration errors.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "warehouse", "load private key",
				fmt.Sprintf("private key file not found at %s\n%s", path, KeyGenerationHint), nil)
		}
		return nil, services.Wrap(services.ErrConfiguration, "warehouse", "load private key", path, err)
	}
	return ParsePrivateKey(data)
}

// ParsePrivateKey decodes the first PEM block of data as an RSA key.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, services.Wrap(services.ErrConfiguration, "warehouse", "parse private key", "no PEM block found", nil)
	}
	if x509.IsEncryptedPEMBlock(block) { //nolint:staticcheck // legacy encrypted PEM detection
		return nil, services.Wrap(services.ErrConfiguration, "warehouse", "parse private key", "encrypted keys are not supported; export with -nocrypt", nil)
	}
	if parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "warehouse", "parse private key", fmt.Sprintf("unsupported key type %T", parsed), nil)
		}
		return key, nil
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "warehouse", "parse private key", "not a PKCS#8 or PKCS#1 RSA key", err)
	}
	return key, nil
}
