// Package logging provides the structured logging used across shellkit.
//
// It is a thin layer over Go's slog package that tags every record with a
// subsystem and keeps call sites terse:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("KeyStore", "Added key %s to %s", key, path)
//	logging.Debug("INI", "Rewrote section %s", section)
//	logging.Warn("Workspace", "Repairing profile %s: profile.conf missing", name)
//	logging.Error("Group", err, "Failed to sync groups")
//
// # Log Levels
//   - Debug: per-line parsing and rewrite details
//   - Info: successful mutations (add, rename, remove, sync)
//   - Warn: recoverable anomalies (repaired profiles, skipped malformed lines)
//   - Error: failed operations
//
// # Subsystems
//
//   - INI: INI document reads and rewrites
//   - KeyStore: flat key/value store mutations
//   - Protected: protected-key set maintenance
//   - Group: group store mutations and sync
//   - Workspace: profile and workspace lifecycle, SSH bundles
//   - Watcher: workspace file watching
//   - Secret: encryption helpers and passphrase lookup
//   - Config: settings loading
//
// Until InitForCLI is called all log calls are discarded, so the core
// packages stay silent when used as a library or under test.
package logging
