package text

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

// regexMeta is every character that is special to a regular expression or
// to a sed-style substitution.
const regexMeta = `\.*[]^$/&+?(){}|`

const maxEntityNameLength = 63

var entityNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Rules controls how section and key names are validated.
type Rules struct {
	// Strict rejects names containing '[', ']' or '='.
	Strict bool
	// AllowSpaces permits whitespace inside names.
	AllowSpaces bool
}

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// EscapeForRegex prefixes every regex or substitution metacharacter with a
// backslash so s can be used as a literal pattern.
func EscapeForRegex(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(regexMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LiteralMatcher compiles s as a literal, case-sensitive pattern.
func LiteralMatcher(s string) *regexp.Regexp {
	return regexp.MustCompile(EscapeForRegex(s))
}

// ValidateSectionName checks an INI section name against rules.
func ValidateSectionName(name string, rules Rules) error {
	return validateName(apperr.KindSection, name, rules)
}

// ValidateKeyName checks an INI key name against rules.
func ValidateKeyName(name string, rules Rules) error {
	return validateName(apperr.KindKey, name, rules)
}

func validateName(kind apperr.Kind, name string, rules Rules) error {
	if name == "" {
		return apperr.Invalid(kind, name, "name cannot be empty")
	}
	if rules.Strict && strings.ContainsAny(name, "[]=") {
		return apperr.Invalid(kind, name, "name cannot contain '[', ']' or '='")
	}
	if !rules.AllowSpaces && strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return apperr.Invalid(kind, name, "name cannot contain whitespace")
	}

	// The rest hold in every mode: a name that breaks them would not read
	// back under the same name.
	switch {
	case strings.ContainsAny(name, "\r\n"):
		return apperr.Invalid(kind, name, "name cannot contain a line break")
	case strings.TrimSpace(name) != name:
		return apperr.Invalid(kind, name, "name cannot start or end with whitespace")
	case kind != apperr.KindKey:
		return nil
	case strings.Contains(name, "="):
		return apperr.Invalid(kind, name, "name cannot contain '='")
	case strings.ContainsAny(name[:1], "#;["):
		return apperr.Invalid(kind, name, "name cannot start with '#', ';' or '['")
	}
	return nil
}

// ValidateEntryKey checks a key for the flat key=value stores. Such keys
// may not be empty, contain '=' or whitespace, or start with a comment
// marker, since any of those would change how the line is parsed back.
// A leading digit is refused so every key maps to a shell variable.
func ValidateEntryKey(key string) error {
	switch {
	case key == "":
		return apperr.Invalid(apperr.KindKey, key, "name cannot be empty")
	case key[0] >= '0' && key[0] <= '9':
		return apperr.Invalid(apperr.KindKey, key, "name cannot start with a digit")
	case strings.Contains(key, "="):
		return apperr.Invalid(apperr.KindKey, key, "name cannot contain '='")
	case strings.IndexFunc(key, unicode.IsSpace) >= 0:
		return apperr.Invalid(apperr.KindKey, key, "name cannot contain whitespace")
	case strings.HasPrefix(key, "#"), strings.HasPrefix(key, ";"):
		return apperr.Invalid(apperr.KindKey, key, "name cannot start with a comment marker")
	}
	return nil
}

// ValidateEntityName checks a profile, workspace or group name. Names must:
//   - Be between 1 and 63 characters
//   - Contain only letters, numbers, '.', '_' and '-'
//   - Start with a letter or number
func ValidateEntityName(kind apperr.Kind, name string) error {
	if name == "" {
		return apperr.Invalid(kind, name, "name cannot be empty")
	}
	if len(name) > maxEntityNameLength {
		return apperr.Invalid(kind, name, "name cannot exceed 63 characters")
	}
	if !entityNamePattern.MatchString(name) {
		return apperr.Invalid(kind, name, "name must contain only letters, numbers, '.', '_' and '-', and start with a letter or number")
	}
	return nil
}
