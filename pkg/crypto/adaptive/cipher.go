package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the key length every cipher of this package takes.
const KeySize = 32

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherAESGCM    CipherType = "aes-gcm"
	CipherXChaCha20 CipherType = "xchacha20-poly1305"

	// CipherAuto selects the preferred cipher for the running platform.
	CipherAuto CipherType = "auto"
)

// Cipher errors.
var (
	ErrInvalidKeySize  = errors.New("adaptive: key must be 32 bytes")
	ErrUnknownCipher   = errors.New("adaptive: unknown cipher type")
	ErrCiphertextShort = errors.New("adaptive: ciphertext too short")
)

// Cipher provides authenticated encryption.
type Cipher interface {
	// Type returns the cipher type.
	Type() CipherType

	// Encrypt seals plaintext, binding additionalData, and prepends the nonce.
	Encrypt(plaintext, additionalData []byte) ([]byte, error)

	// Decrypt opens a value produced by Encrypt with the same additionalData.
	Decrypt(ciphertext, additionalData []byte) ([]byte, error)
}

// ParseType parses a configured cipher name. The empty string and "auto"
// resolve to Preferred().
func ParseType(name string) (CipherType, error) {
	switch t := CipherType(strings.ToLower(strings.TrimSpace(name))); t {
	case "", CipherAuto:
		return Preferred(), nil
	case CipherAESGCM, CipherXChaCha20:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCipher, name)
	}
}

// Preferred returns the cipher type best suited to the running platform.
// Go's crypto/aes is hardware accelerated on amd64 and arm64.
func Preferred() CipherType {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return CipherAESGCM
	default:
		return CipherXChaCha20
	}
}

// New creates a cipher of the preferred type.
func New(key []byte) (Cipher, error) {
	return NewWithType(key, Preferred())
}

// NewWithType creates a cipher of the specified type.
func NewWithType(key []byte, t CipherType) (Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	if t == CipherAuto {
		t = Preferred()
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch t {
	case CipherAESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(key); err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case CipherXChaCha20:
		aead, err = chacha20poly1305.NewX(key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, t)
	}
	if err != nil {
		return nil, fmt.Errorf("adaptive: init %s: %w", t, err)
	}
	return &aeadCipher{typ: t, aead: aead}, nil
}

type aeadCipher struct {
	typ  CipherType
	aead cipher.AEAD
}

func (c *aeadCipher) Type() CipherType {
	return c.typ
}

func (c *aeadCipher) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("adaptive: nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(ciphertext) < n+c.aead.Overhead() {
		return nil, ErrCiphertextShort
	}
	return c.aead.Open(nil, ciphertext[:n], ciphertext[n:], additionalData)
}
