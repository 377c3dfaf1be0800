// Package secret encrypts configuration values and files at rest.
//
// Values are sealed with AES-256-GCM under a key derived from a passphrase
// with PBKDF2-SHA256. The string form is "ENC:" followed by the base64 of
// salt, nonce and ciphertext, so an encrypted value can sit in any of the
// plain text stores as an opaque string.
//
// The passphrase comes from a PassphraseSource. The CLI chains the
// SHELLKIT_PASSPHRASE environment variable with the OS keyring.
package secret
