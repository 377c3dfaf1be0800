// Package text holds the pure string helpers shared by the INI model and
// the stores: whitespace trimming, literal pattern escaping and name
// validation.
//
// Name validation is rule-driven. Section and key names are always
// rejected when empty. Strict rules additionally reject the structural
// characters '[', ']' and '='. Whitespace is rejected unless the rules
// allow spaces:
//
//	rules := text.Rules{Strict: true}
//	if err := text.ValidateSectionName("My[Section]", rules); err != nil {
//		// err is an *apperr.ValidationError
//	}
//
// Nothing in this package touches the filesystem.
package text
