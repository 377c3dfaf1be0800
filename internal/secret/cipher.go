package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/fsutil"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const subsystem = "Secret"

// EncryptedPrefix marks a value produced by EncryptString.
const EncryptedPrefix = "ENC:"

const (
	keySize          = 32
	saltSize         = 16
	nonceSize        = 12
	pbkdf2Iterations = 100000
)

var (
	// ErrEmptyPassphrase is returned when a cipher is built without a passphrase.
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")
	// ErrInvalidCiphertext indicates the payload is not a value this package produced.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates a wrong passphrase or tampered data.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// Cipher turns plaintext into an opaque string and back.
type Cipher interface {
	EncryptString(plaintext string) (string, error)
	DecryptString(ciphertext string) (string, error)
}

// PassphraseCipher is an AES-256-GCM Cipher keyed by a passphrase. Every
// message gets its own random salt and nonce; the key is derived with
// PBKDF2-SHA256.
type PassphraseCipher struct {
	passphrase []byte
}

// NewPassphraseCipher returns a Cipher for passphrase.
func NewPassphraseCipher(passphrase string) (*PassphraseCipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &PassphraseCipher{passphrase: []byte(passphrase)}, nil
}

func (c *PassphraseCipher) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.passphrase, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext into salt|nonce|ciphertext.
func (c *PassphraseCipher) Encrypt(plaintext []byte) ([]byte, error) {
	buf := make([]byte, saltSize+nonceSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("failed to generate salt and nonce: %w", err)
	}
	salt, nonce := buf[:saltSize], buf[saltSize:]

	gcm, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(buf, nonce, plaintext, nil), nil
}

// Decrypt opens a payload produced by Encrypt.
func (c *PassphraseCipher) Decrypt(payload []byte) ([]byte, error) {
	if len(payload) < saltSize+nonceSize+1 {
		return nil, ErrInvalidCiphertext
	}
	salt := payload[:saltSize]
	nonce := payload[saltSize : saltSize+nonceSize]

	gcm, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, payload[saltSize+nonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptString returns "ENC:" followed by the base64 payload.
func (c *PassphraseCipher) EncryptString(plaintext string) (string, error) {
	payload, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(payload), nil
}

// DecryptString reverses EncryptString.
func (c *PassphraseCipher) DecryptString(ciphertext string) (string, error) {
	if !IsEncrypted(ciphertext) {
		return "", ErrInvalidCiphertext
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	plaintext, err := c.Decrypt(payload)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether value carries the encrypted prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// EncryptFile writes the encrypted form of src to dst with mode 0600.
func EncryptFile(c Cipher, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return apperr.IO("read", src, err)
	}
	sealed, err := c.EncryptString(string(data))
	if err != nil {
		return err
	}
	if err := fsutil.AtomicWriteFile(dst, []byte(sealed+"\n"), fsutil.SecretPerm); err != nil {
		return apperr.IO("write", dst, err)
	}
	logging.Info(subsystem, "Encrypted %s to %s", src, dst)
	return nil
}

// DecryptFile writes the plaintext of an EncryptFile output to dst with
// mode 0600.
func DecryptFile(c Cipher, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return apperr.IO("read", src, err)
	}
	plaintext, err := c.DecryptString(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("failed to decrypt %s: %w", src, err)
	}
	if err := fsutil.AtomicWriteFile(dst, []byte(plaintext), fsutil.SecretPerm); err != nil {
		return apperr.IO("write", dst, err)
	}
	logging.Info(subsystem, "Decrypted %s to %s", src, dst)
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
