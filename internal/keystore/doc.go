// Package keystore implements the flat key/value configuration store.
//
// The store is a text file of key=value lines where value is the Base64
// encoding of the plaintext with newlines stripped. A '#' line directly
// above an entry is its comment and travels with it on removal:
//
//	# production database password
//	DB_PASSWORD=aHVudGVyMg==
//	API_KEY=czNjcjN0LHdpdGgsY29tbWFz
//
// Unlike the INI editor, Add refuses a key that already exists; changing a
// key takes an explicit Update, Rename or Remove. Those three consult the
// store's ProtectedSet first and leave the file untouched for protected
// keys.
//
// A ProtectedSet combines built-in names with a user maintained file of
// newline separated keys. Sync garbage collects file entries whose key is
// gone from the store.
//
// With a secret.Cipher configured, AddSecret stores an encrypted value and
// Get decrypts it transparently.
package keystore
