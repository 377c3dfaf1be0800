// Package ini reads and rewrites INI documents while preserving everything
// it does not touch.
//
// A file is parsed into a Document: an ordered list of lines classified as
// blank, comment ('#' or ';'), section header, key=value entry, or
// malformed. Mutations edit the Document in memory and the whole file is
// then written back through a temp file and rename, so a crash leaves
// either the old or the new file on disk. Lines that were not edited are
// written back exactly as they were read.
//
// # Sections
//
// A header that repeats an earlier section name re-opens that section.
// Lookups see the last occurrence of a key, and writes replace that
// occurrence in place. New keys land after the last entry of the
// section's final block.
//
// # Values
//
// Values containing a comma, whitespace, a double quote or a backslash are
// written double-quoted. Inside quotes a backslash is written as \\, a
// double quote as \" and a newline as \n. Only quoted values are unescaped
// on read, so an unquoted value is always taken literally.
//
// # Arrays
//
// SetArrayValue stores an ordered list of strings as one value: elements
// are joined with commas and each element that needs it (including the
// empty string) is quoted on its own. GetArrayValue splits the value with
// a quote-aware scanner, so commas inside quoted elements are kept:
//
//	hosts=a,"b,c",""   ->   []string{"a", "b,c", ""}
//
// # Environment export
//
// ExposeEnv binds every key of a file (or of one section) to an
// environment variable named by DeriveVarName; DestroyEnv recomputes the
// same names and unsets them.
package ini
