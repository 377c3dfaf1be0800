package state

import (
	"fmt"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

// Selection is the content of state.yaml.
type Selection struct {
	CurrentProfile   string `yaml:"current-profile,omitempty" json:"currentProfile,omitempty"`
	CurrentWorkspace string `yaml:"current-workspace,omitempty" json:"currentWorkspace,omitempty"`
}

// Current returns the selected name for kind.
func (s *Selection) Current(kind apperr.Kind) string {
	switch kind {
	case apperr.KindProfile:
		return s.CurrentProfile
	case apperr.KindWorkspace:
		return s.CurrentWorkspace
	}
	return ""
}

func (s *Selection) set(kind apperr.Kind, name string) error {
	switch kind {
	case apperr.KindProfile:
		s.CurrentProfile = name
	case apperr.KindWorkspace:
		s.CurrentWorkspace = name
	default:
		return fmt.Errorf("no selection for %s", kind)
	}
	return nil
}

// EnvVar returns the environment variable that overrides the selection
// for kind.
func EnvVar(kind apperr.Kind) string {
	switch kind {
	case apperr.KindProfile:
		return "SHELLKIT_PROFILE"
	case apperr.KindWorkspace:
		return "SHELLKIT_WORKSPACE"
	}
	return ""
}
