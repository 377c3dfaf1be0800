// Package state remembers which profile and workspace are selected.
//
// The selection is stored in state.yaml inside the configuration
// directory:
//
//	current-profile: dev
//	current-workspace: payments
//
// # Precedence
//
// Commands that act on "the current" profile or workspace resolve the name
// in this order:
//  1. explicit argument or flag
//  2. SHELLKIT_PROFILE / SHELLKIT_WORKSPACE environment variable
//  3. the value recorded in state.yaml
//
// # Concurrency
//
// Storage operations are safe within a single process using a read-write
// mutex. Concurrent access from several shellkit processes is not
// coordinated; writes are atomic, so the last writer wins.
package state
