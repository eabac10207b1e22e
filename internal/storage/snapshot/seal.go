package snapshot

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/yndnr/rolodex/pkg/crypto/adaptive"
)

// Sealing errors.
var (
	ErrPassphraseTooWeak  = errors.New("snapshot: passphrase too weak (minimum 8 characters)")
	ErrPassphraseRequired = errors.New("snapshot: document is sealed and no passphrase is configured")
	ErrNotSealed          = errors.New("snapshot: expected sealed document")
	ErrDecryptionFailed   = errors.New("snapshot: decryption failed - wrong passphrase or corrupted data")
)

const (
	// MinPassphraseLength is the minimum passphrase length.
	MinPassphraseLength = 8

	// SaltLength is the salt length used in key derivation.
	SaltLength = 16

	sealVersion = 1

	// Argon2id parameters for key derivation from a passphrase.
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

var sealMagic = []byte("RLDXSEAL")

// headerLength covers magic, version, cipher id and salt.
var headerLength = len(sealMagic) + 2 + SaltLength

var cipherIDs = map[adaptive.CipherType]byte{
	adaptive.CipherAESGCM:    1,
	adaptive.CipherXChaCha20: 2,
}

func cipherForID(id byte) (adaptive.CipherType, bool) {
	for t, v := range cipherIDs {
		if v == id {
			return t, true
		}
	}
	return "", false
}

// Sealer encrypts and decrypts documents with a passphrase.
type Sealer struct {
	passphrase []byte
	cipher     adaptive.CipherType
}

// NewSealer creates a Sealer. cipher selects the algorithm used for new
// seals ("", "auto", "aes-gcm" or "xchacha20-poly1305"); opening always
// follows the algorithm recorded in the sealed header.
func NewSealer(passphrase []byte, cipher string) (*Sealer, error) {
	if len(passphrase) < MinPassphraseLength {
		return nil, ErrPassphraseTooWeak
	}
	t, err := adaptive.ParseType(cipher)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return &Sealer{
		passphrase: bytes.Clone(passphrase),
		cipher:     t,
	}, nil
}

// Cipher returns the algorithm used for new seals.
func (s *Sealer) Cipher() adaptive.CipherType {
	return s.cipher
}

// Seal encrypts plain under a fresh salt.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	header := make([]byte, 0, headerLength)
	header = append(header, sealMagic...)
	header = append(header, sealVersion, cipherIDs[s.cipher])

	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("snapshot: generate salt: %w", err)
	}
	header = append(header, salt...)

	c, err := s.newCipher(s.cipher, salt)
	if err != nil {
		return nil, err
	}
	ct, err := c.Encrypt(plain, header)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encrypt: %w", err)
	}
	return append(header, ct...), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if !IsSealed(sealed) || len(sealed) < headerLength {
		return nil, ErrNotSealed
	}
	header := sealed[:headerLength]
	if v := header[len(sealMagic)]; v != sealVersion {
		return nil, fmt.Errorf("snapshot: unsupported seal version %d", v)
	}
	t, ok := cipherForID(header[len(sealMagic)+1])
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown seal cipher %d", header[len(sealMagic)+1])
	}
	salt := header[len(sealMagic)+2:]

	c, err := s.newCipher(t, salt)
	if err != nil {
		return nil, err
	}
	plain, err := c.Decrypt(sealed[headerLength:], header)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

func (s *Sealer) newCipher(t adaptive.CipherType, salt []byte) (adaptive.Cipher, error) {
	key := argon2.IDKey(s.passphrase, salt, argon2Time, argon2Memory, argon2Threads, adaptive.KeySize)
	defer zeroKey(key)

	c, err := adaptive.NewWithType(key, t)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return c, nil
}

// IsSealed reports whether b starts with the sealed-document magic.
func IsSealed(b []byte) bool {
	return bytes.HasPrefix(b, sealMagic)
}

func zeroKey(key []byte) {
	for i := range key {
		key[i] = 0
	}
}
