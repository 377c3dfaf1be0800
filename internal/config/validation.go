package config

import (
	"fmt"
	"strings"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/text"
	"github.com/pnguyen215/shell-sub002/internal/workspace"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Is reports the collection as a validation failure.
func (ve ValidationErrors) Is(target error) bool {
	return target == apperr.ErrValidation
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, format string, args ...any) {
	*ve = append(*ve, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks that every path is set and every name is well formed.
func (s Settings) Validate() error {
	var errs ValidationErrors

	paths := []struct{ field, value string }{
		{"paths.keyStore", s.Paths.KeyStore},
		{"paths.protectedKeys", s.Paths.ProtectedKeys},
		{"paths.groups", s.Paths.Groups},
		{"paths.profiles", s.Paths.Profiles},
		{"paths.workspaces", s.Paths.Workspaces},
		{"paths.state", s.Paths.State},
	}
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			errs.Add(p.field, "is required")
		}
	}

	for i, key := range s.ProtectedKeys {
		if err := text.ValidateEntryKey(key); err != nil {
			errs.Add(fmt.Sprintf("protectedKeys[%d]", i), "%v", err)
		}
	}
	for i, b := range s.Workspace.DefaultBundles {
		if _, err := workspace.NormalizeConfName(b); err != nil {
			errs.Add(fmt.Sprintf("workspace.defaultBundles[%d]", i), "%v", err)
		}
	}
	if s.Secret.PassphraseEnv == "" {
		errs.Add("secret.passphraseEnv", "is required")
	}
	if s.Secret.KeyringService == "" {
		errs.Add("secret.keyringService", "is required")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
