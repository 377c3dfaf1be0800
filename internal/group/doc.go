// Package group manages named collections of key store keys.
//
// Each group is one line of the group file:
//
//	database=DB_HOST,DB_USER,DB_PASSWORD
//
// Groups only reference keys; values are looked up through a KeyResolver
// (normally the key store) when a group is read. Sync keeps the file
// consistent with the key store by dropping dangling references.
package group
