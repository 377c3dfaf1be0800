package ini

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

func newTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ini")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestEditor_WriteReadRoundTrip(t *testing.T) {
	e := NewEditor(Options{Strict: true})
	path := newTestFile(t, "")

	values := []string{
		"plain",
		"s3cr3t,with,commas",
		"has spaces inside",
		`embedded "double" quotes`,
		`mixed, "all" of\them`,
		"  padded  ",
	}

	for i, v := range values {
		key := "k" + string(rune('a'+i))
		require.NoError(t, e.Write(path, "main", key, v))

		got, err := e.Read(path, "main", key)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestEditor_LenientRejectsUnreadableNames(t *testing.T) {
	e := NewEditor(Options{AllowSpaces: true})
	path := newTestFile(t, "[main]\nk=v\n")

	for _, key := range []string{"a=b", "#x", ";x", "[x", " x", "x "} {
		t.Run("key "+key, func(t *testing.T) {
			assert.True(t, apperr.IsValidation(e.Write(path, "main", key, "v")))
		})
	}
	for _, section := range []string{" x ", "x ", " x"} {
		t.Run("section "+section, func(t *testing.T) {
			assert.True(t, apperr.IsValidation(e.AddSection(path, section)))
		})
	}
	assert.Equal(t, "[main]\nk=v\n", readFile(t, path))

	require.NoError(t, e.AddSection(path, "x y"))
	require.NoError(t, e.AddSection(path, "x y"))
	sections, err := e.Sections(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "x y"}, sections)

	require.NoError(t, e.Write(path, "x y", "a]b", "v"))
	got, err := e.Read(path, "x y", "a]b")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestEditor_WriteCreatesFileAndDir(t *testing.T) {
	e := NewEditor(Options{})
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.ini")

	require.NoError(t, e.Write(path, "base", "host", "a"))
	assert.Equal(t, "[base]\nhost=a\n", readFile(t, path))
}

func TestEditor_WriteReplacesInPlace(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[base]\nhost=a\nport=1\n[dev]\nport=2\n")

	require.NoError(t, e.Write(path, "base", "host", "b"))
	assert.Equal(t, "[base]\nhost=b\nport=1\n[dev]\nport=2\n", readFile(t, path))
}

func TestEditor_ReadErrors(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[base]\nhost=a\nempty=\n")

	_, err := e.Read(filepath.Join(t.TempDir(), "missing.ini"), "base", "host")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindFile))

	_, err = e.Read(path, "dev", "host")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindSection))

	_, err = e.Read(path, "base", "port")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindKey))

	_, err = e.Read(path, "base", "empty")
	assert.ErrorIs(t, err, ErrEmptyValue)
	assert.False(t, apperr.IsNotFound(err))

	lenient := NewEditor(Options{AllowEmptyValues: true})
	v, err := lenient.Read(path, "base", "empty")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestEditor_WriteEmptyValue(t *testing.T) {
	path := newTestFile(t, "")

	err := NewEditor(Options{}).Write(path, "s", "k", "")
	assert.True(t, apperr.IsValidation(err))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, NewEditor(Options{AllowEmptyValues: true}).Write(path, "s", "k", ""))
	assert.Equal(t, "[s]\nk=\n", readFile(t, path))
}

func TestEditor_GetOrDefault(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[base]\nhost=a\n")

	assert.Equal(t, "a", e.GetOrDefault(path, "base", "host", "x"))
	assert.Equal(t, "x", e.GetOrDefault(path, "base", "port", "x"))
	assert.Equal(t, "", e.GetOrDefault(path+".missing", "base", "host", ""))
}

func TestEditor_ListSectionsIsLazyAndRestartable(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[a]\n[b]\n[a]\n")

	seq := e.ListSections(path)
	assert.Equal(t, []string{"a", "b", "a"}, slices.Collect(seq))

	// Ranging again re-reads the file.
	require.NoError(t, e.AddSection(path, "c"))
	assert.Equal(t, []string{"a", "b", "a", "c"}, slices.Collect(seq))

	// Early break stops iteration.
	var first []string
	for s := range seq {
		first = append(first, s)
		break
	}
	assert.Equal(t, []string{"a"}, first)

	assert.Empty(t, slices.Collect(e.ListSections(path+".missing")))
}

func TestEditor_ListKeys(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[a]\nx=1\ny=2\n[b]\nz=3\n")

	assert.Equal(t, []string{"x", "y"}, slices.Collect(e.ListKeys(path, "a")))
	assert.Equal(t, []string{"z"}, slices.Collect(e.ListKeys(path, "b")))

	keys, err := e.Keys(path, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, keys)

	_, err = e.Keys(path, "c")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindSection))
}

func TestEditor_Predicates(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[a]\nx=1\n")

	assert.True(t, e.SectionExists(path, "a"))
	assert.False(t, e.SectionExists(path, "b"))
	assert.True(t, e.KeyExists(path, "a", "x"))
	assert.False(t, e.KeyExists(path, "a", "y"))
	assert.False(t, e.KeyExists(path+".missing", "a", "x"))
}

func TestEditor_AddSection(t *testing.T) {
	e := NewEditor(Options{Strict: true})
	path := newTestFile(t, "[a]\nx=1\n")

	require.NoError(t, e.AddSection(path, "b"))
	require.NoError(t, e.AddSection(path, "b"), "existing section is a no-op")
	assert.Equal(t, "[a]\nx=1\n\n[b]\n", readFile(t, path))
}

func TestEditor_StrictNameRejection(t *testing.T) {
	e := NewEditor(Options{Strict: true})
	original := "[a]\nx=1\n"
	path := newTestFile(t, original)

	err := e.AddSection(path, "My[Section]")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, original, readFile(t, path))

	err = e.Write(path, "a", "bad=key", "v")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, original, readFile(t, path))

	err = e.RenameSection(path, "a", "has space")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, original, readFile(t, path))
}

func TestEditor_RemoveSection(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[A]\nk=1\n[A2]\nk=2\n[B]\nk=3\n")

	require.NoError(t, e.RemoveSection(path, "A"))
	assert.Equal(t, "[A2]\nk=2\n[B]\nk=3\n", readFile(t, path))

	err := e.RemoveSection(path, "A")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindSection))
}

func TestEditor_RemoveKey(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[a]\nk=1\nj=2\n[b]\nk=3\n")

	require.NoError(t, e.RemoveKey(path, "a", "k"))
	assert.Equal(t, "[a]\nj=2\n[b]\nk=3\n", readFile(t, path))

	err := e.RemoveKey(path, "a", "k")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindKey))
}

func TestEditor_RenameSection(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[dev]\nport=2\n[uat]\nport=3\n")

	err := e.RenameSection(path, "dev", "uat")
	assert.True(t, apperr.IsAlreadyExists(err))

	err = e.RenameSection(path, "prod", "live")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindSection))

	require.NoError(t, e.RenameSection(path, "dev", "staging"))
	assert.Equal(t, "[staging]\nport=2\n[uat]\nport=3\n", readFile(t, path))
}

func TestEditor_CloneSection(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "[dev]\nport=2\nhost=\"a b\"\n")

	require.NoError(t, e.CloneSection(path, "dev", "uat"))

	entries, err := e.Entries(path, "uat")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "port", Value: "2"}, {Key: "host", Value: "a b"}}, entries)

	err = e.CloneSection(path, "dev", "uat")
	assert.True(t, apperr.IsAlreadyExists(err))
}

func TestEditor_ArrayValues(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "")

	elems := []string{"a", "b,c", "", `quote "q"`, "space here"}
	require.NoError(t, e.SetArrayValue(path, "hosts", "list", elems))

	got, err := e.GetArrayValue(path, "hosts", "list")
	require.NoError(t, err)
	assert.Equal(t, elems, got)

	assert.Equal(t, "[hosts]\nlist=a,\"b,c\",\"\",\"quote \\\"q\\\"\",\"space here\"\n", readFile(t, path))

	_, err = e.GetArrayValue(path, "hosts", "other")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindKey))
}

func TestEditor_WriteEntries(t *testing.T) {
	e := NewEditor(Options{})
	path := newTestFile(t, "")

	require.NoError(t, e.WriteEntries(path, "base", []Entry{{Key: "host", Value: "a"}, {Key: "port", Value: "22"}}))
	require.NoError(t, e.WriteEntries(path, "dev", nil))
	assert.Equal(t, "[base]\nhost=a\nport=22\n\n[dev]\n", readFile(t, path))
}

func TestEditor_Validate(t *testing.T) {
	e := NewEditor(Options{Strict: true})
	path := newTestFile(t, "[base]\nhost=a\nnot an entry\nhost=b\n[bad]name]\nk=\n")

	problems, err := e.Validate(path)
	require.NoError(t, err)

	lines := make([]int, 0, len(problems))
	for _, p := range problems {
		lines = append(lines, p.Line)
	}
	assert.Equal(t, []int{3, 4, 5, 6}, lines)
	assert.Contains(t, problems[0].Message, "malformed")
	assert.Contains(t, problems[1].Message, "duplicate key")
	assert.Equal(t, "line 4: "+problems[1].Message, problems[1].String())

	clean := newTestFile(t, "[base]\nhost=a\n")
	problems, err = e.Validate(clean)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
