// Package adaptive provides authenticated encryption with hardware-aware
// algorithm selection.
//
// Supported Algorithms:
//
//   - AES-256-GCM: preferred where Go uses hardware AES (amd64, arm64)
//   - XChaCha20-Poly1305: everywhere else
//
// Both take a 32-byte key. The nonce is random and is prepended to the
// ciphertext, so a sealed value is self-contained:
//
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, aad)
//	plain, err := c.Decrypt(sealed, aad)
//
// Ciphers are safe for concurrent use.
package adaptive
