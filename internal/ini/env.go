package ini

import (
	"os"
	"strings"
	"unicode"
)

// Environ is the environment that ExposeEnv and DestroyEnv bind into.
type Environ interface {
	Setenv(name, value string) error
	Unsetenv(name string) error
}

// ProcessEnv binds into the current process environment.
type ProcessEnv struct{}

func (ProcessEnv) Setenv(name, value string) error { return os.Setenv(name, value) }
func (ProcessEnv) Unsetenv(name string) error      { return os.Unsetenv(name) }

// MapEnv is an in-memory Environ.
type MapEnv map[string]string

func (m MapEnv) Setenv(name, value string) error {
	m[name] = value
	return nil
}

func (m MapEnv) Unsetenv(name string) error {
	delete(m, name)
	return nil
}

// DeriveVarName builds the environment variable name for a key:
// [PREFIX_][SECTION_]KEY, upper-cased, with every rune that is not an
// ASCII letter or digit replaced by '_'. Empty prefix and section parts
// are left out.
func DeriveVarName(prefix, section, key string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, section, key} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	name := strings.ToUpper(strings.Join(parts, "_"))
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, name)
}
