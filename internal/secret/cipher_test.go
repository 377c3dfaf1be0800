package secret

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestPassphraseCipher_RoundTrip(t *testing.T) {
	c, err := NewPassphraseCipher("correct horse")
	require.NoError(t, err)

	for _, plaintext := range []string{"s3cr3t,with,commas", "", "multi\nline", "ünïcödé"} {
		sealed, err := c.EncryptString(plaintext)
		require.NoError(t, err)
		assert.True(t, IsEncrypted(sealed))

		opened, err := c.DecryptString(sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestPassphraseCipher_RandomizedOutput(t *testing.T) {
	c, err := NewPassphraseCipher("pw")
	require.NoError(t, err)

	a, err := c.EncryptString("same")
	require.NoError(t, err)
	b, err := c.EncryptString("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPassphraseCipher_WrongPassphrase(t *testing.T) {
	c1, _ := NewPassphraseCipher("one")
	c2, _ := NewPassphraseCipher("two")

	sealed, err := c1.EncryptString("value")
	require.NoError(t, err)

	_, err = c2.DecryptString(sealed)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestPassphraseCipher_Tampered(t *testing.T) {
	c, _ := NewPassphraseCipher("pw")
	sealed, err := c.EncryptString("value")
	require.NoError(t, err)

	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, EncryptedPrefix))
	require.NoError(t, err)
	payload[len(payload)-1] ^= 0xff
	tampered := EncryptedPrefix + base64.StdEncoding.EncodeToString(payload)

	_, err = c.DecryptString(tampered)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestPassphraseCipher_InvalidInput(t *testing.T) {
	c, _ := NewPassphraseCipher("pw")

	_, err := c.DecryptString("plain")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = c.DecryptString(EncryptedPrefix + "!!!")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = c.DecryptString(EncryptedPrefix + base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = NewPassphraseCipher("")
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestEncryptDecryptFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "db.conf")
	enc := filepath.Join(dir, "db.conf.enc")
	dst := filepath.Join(dir, "db.conf.out")

	content := "[base]\nssh_host=10.0.0.1\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0644))

	c, _ := NewPassphraseCipher("pw")
	require.NoError(t, EncryptFile(c, src, enc))

	sealed, err := os.ReadFile(enc)
	require.NoError(t, err)
	assert.True(t, IsEncrypted(string(sealed)))
	assert.NotContains(t, string(sealed), "ssh_host")

	info, err := os.Stat(enc)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, DecryptFile(c, enc, dst))
	out, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, string(out))
}

func TestPassphraseSources(t *testing.T) {
	keyring.MockInit()

	t.Setenv("SHELLKIT_TEST_PASS", "")
	env := EnvSource{Var: "SHELLKIT_TEST_PASS"}
	kr := KeyringSource{Service: "shellkit-test", User: "passphrase"}
	chain := Chain{env, kr}

	_, err := chain.Passphrase()
	assert.ErrorIs(t, err, ErrNoPassphrase)

	require.NoError(t, kr.Store("from-keyring"))
	p, err := chain.Passphrase()
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", p)

	t.Setenv("SHELLKIT_TEST_PASS", "from-env")
	p, err = chain.Passphrase()
	require.NoError(t, err)
	assert.Equal(t, "from-env", p)

	c, err := NewCipherFrom(chain)
	require.NoError(t, err)
	assert.NotNil(t, c)

	require.NoError(t, kr.Delete())
	require.NoError(t, kr.Delete(), "deleting a missing entry is not an error")
	_, err = kr.Passphrase()
	assert.ErrorIs(t, err, ErrNoPassphrase)

	assert.ErrorIs(t, kr.Store(""), ErrEmptyPassphrase)
}
