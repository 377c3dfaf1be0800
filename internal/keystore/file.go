package keystore

import (
	"errors"
	"os"
	"strings"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/fsutil"
)

type recordKind int

const (
	recordOther recordKind = iota
	recordComment
	recordEntry
)

type record struct {
	kind recordKind
	raw  string
	key  string
	// value is the encoded text after the first '='.
	value string
}

// entryFile is the parsed form of a key=value file. Lines that are not
// entries are kept verbatim.
type entryFile struct {
	records []record
}

func parseEntryFile(data []byte) *entryFile {
	f := &entryFile{}
	if len(data) == 0 {
		return f
	}
	for _, raw := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		f.records = append(f.records, parseRecord(raw))
	}
	return f
}

func parseRecord(raw string) record {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "#") {
		return record{kind: recordComment, raw: raw}
	}
	key, value, ok := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return record{kind: recordOther, raw: raw}
	}
	return record{kind: recordEntry, raw: raw, key: key, value: strings.TrimSpace(value)}
}

func entryRecord(key, encoded string) record {
	return record{kind: recordEntry, raw: key + "=" + encoded, key: key, value: encoded}
}

func commentRecord(comment string) record {
	return record{kind: recordComment, raw: "# " + comment}
}

func (f *entryFile) bytes() []byte {
	var b strings.Builder
	for _, r := range f.records {
		b.WriteString(r.raw)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// index returns the position of the last entry for key, or -1.
func (f *entryFile) index(key string) int {
	idx := -1
	for i, r := range f.records {
		if r.kind == recordEntry && r.key == key {
			idx = i
		}
	}
	return idx
}

// comment returns the comment line directly above the record at i.
func (f *entryFile) comment(i int) string {
	if i > 0 && f.records[i-1].kind == recordComment {
		return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(f.records[i-1].raw), "#"))
	}
	return ""
}

func (f *entryFile) entries() []Entry {
	var out []Entry
	pos := make(map[string]int)
	for i, r := range f.records {
		if r.kind != recordEntry {
			continue
		}
		e := Entry{Key: r.key, Encoded: r.value, Comment: f.comment(i)}
		if p, ok := pos[r.key]; ok {
			out[p] = e
			continue
		}
		pos[r.key] = len(out)
		out = append(out, e)
	}
	return out
}

func (f *entryFile) appendEntry(key, encoded, comment string) {
	if comment != "" {
		f.records = append(f.records, commentRecord(comment))
	}
	f.records = append(f.records, entryRecord(key, encoded))
}

// remove drops every entry for key together with the comment line above
// each of them.
func (f *entryFile) remove(key string) bool {
	drop := make(map[int]bool)
	for i, r := range f.records {
		if r.kind == recordEntry && r.key == key {
			drop[i] = true
			if i > 0 && f.records[i-1].kind == recordComment {
				drop[i-1] = true
			}
		}
	}
	if len(drop) == 0 {
		return false
	}

	kept := make([]record, 0, len(f.records)-len(drop))
	for i, r := range f.records {
		if !drop[i] {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return true
}

func readEntryFile(path string) (*entryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &entryFile{}, nil
		}
		return nil, apperr.IO("read", path, err)
	}
	return parseEntryFile(data), nil
}

func writeEntryFile(path string, f *entryFile) error {
	perm := fsutil.PreservePerm(path, fsutil.FilePerm)
	if err := fsutil.AtomicWriteFile(path, f.bytes(), perm); err != nil {
		return apperr.IO("write", path, err)
	}
	return nil
}
