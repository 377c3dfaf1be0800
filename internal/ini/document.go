package ini

import (
	"bytes"
	"strings"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineHeader
	lineEntry
	lineMalformed
)

// line is one physical line of a document. raw is written back verbatim
// unless the line is replaced.
type line struct {
	kind lineKind
	raw  string
	// name is the section name for headers and the key for entries.
	name string
	// value is the undecoded text after '=' for entries.
	value string
}

// Entry is a decoded key/value pair.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Document is an in-memory INI file.
type Document struct {
	lines []line
	// noFinalNewline is set when parsed content did not end in '\n'.
	noFinalNewline bool
}

// Parse builds a Document from file content.
func Parse(data []byte) *Document {
	d := &Document{}
	if len(data) == 0 {
		return d
	}

	text := string(data)
	d.noFinalNewline = !strings.HasSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	for _, raw := range strings.Split(text, "\n") {
		d.lines = append(d.lines, parseLine(raw))
	}
	return d
}

func parseLine(raw string) line {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return line{kind: lineBlank, raw: raw}
	case trimmed[0] == '#' || trimmed[0] == ';':
		return line{kind: lineComment, raw: raw}
	case trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']':
		return line{kind: lineHeader, raw: raw, name: strings.TrimSpace(trimmed[1 : len(trimmed)-1])}
	}

	key, value, ok := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return line{kind: lineMalformed, raw: raw}
	}
	return line{kind: lineEntry, raw: raw, name: key, value: strings.TrimSpace(value)}
}

func headerLine(section string) line {
	return line{kind: lineHeader, raw: "[" + section + "]", name: section}
}

func entryLine(key, rawValue string) line {
	return line{kind: lineEntry, raw: key + "=" + rawValue, name: key, value: rawValue}
}

// Bytes serializes the document. Every line is newline terminated except
// the last one of parsed content that had no final newline.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	for i, l := range d.lines {
		buf.WriteString(l.raw)
		if i < len(d.lines)-1 || !d.noFinalNewline {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// Sections returns section names in file order, duplicates included.
func (d *Document) Sections() []string {
	var names []string
	for _, l := range d.lines {
		if l.kind == lineHeader {
			names = append(names, l.name)
		}
	}
	return names
}

// HasSection reports whether at least one header names section.
func (d *Document) HasSection(section string) bool {
	for _, l := range d.lines {
		if l.kind == lineHeader && l.name == section {
			return true
		}
	}
	return false
}

// each calls fn with the index of every entry line belonging to section,
// across all of its blocks. Entries before the first header belong to the
// unnamed section "".
func (d *Document) each(section string, fn func(i int)) {
	current := ""
	for i, l := range d.lines {
		switch l.kind {
		case lineHeader:
			current = l.name
		case lineEntry:
			if current == section {
				fn(i)
			}
		}
	}
}

// Keys returns the distinct keys of section in first occurrence order.
func (d *Document) Keys(section string) []string {
	var keys []string
	seen := make(map[string]bool)
	d.each(section, func(i int) {
		k := d.lines[i].name
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	})
	return keys
}

// Entries returns the decoded entries of section. Keys keep their first
// occurrence position and take their last occurrence value.
func (d *Document) Entries(section string) []Entry {
	var entries []Entry
	pos := make(map[string]int)
	d.each(section, func(i int) {
		l := d.lines[i]
		v := DecodeValue(l.value)
		if p, ok := pos[l.name]; ok {
			entries[p].Value = v
			return
		}
		pos[l.name] = len(entries)
		entries = append(entries, Entry{Key: l.name, Value: v})
	})
	return entries
}

// lookup returns the index of the last entry for key in section, or -1.
func (d *Document) lookup(section, key string) int {
	idx := -1
	d.each(section, func(i int) {
		if d.lines[i].name == key {
			idx = i
		}
	})
	return idx
}

// Raw returns the undecoded value of key in section.
func (d *Document) Raw(section, key string) (string, bool) {
	idx := d.lookup(section, key)
	if idx < 0 {
		return "", false
	}
	return d.lines[idx].value, true
}

// Get returns the decoded value of key in section.
func (d *Document) Get(section, key string) (string, bool) {
	raw, ok := d.Raw(section, key)
	if !ok {
		return "", false
	}
	return DecodeValue(raw), true
}

// AddSection appends a header for section unless one exists. It reports
// whether the document changed.
func (d *Document) AddSection(section string) bool {
	if d.HasSection(section) {
		return false
	}
	if n := len(d.lines); n > 0 && d.lines[n-1].kind != lineBlank {
		d.lines = append(d.lines, line{kind: lineBlank})
	}
	d.lines = append(d.lines, headerLine(section))
	return true
}

// Set stores value under key in section, quoting it as needed. The
// section is created when missing.
func (d *Document) Set(section, key, value string) {
	d.SetRaw(section, key, EncodeValue(value))
}

// SetRaw stores an already encoded value.
func (d *Document) SetRaw(section, key, rawValue string) {
	if idx := d.lookup(section, key); idx >= 0 {
		d.lines[idx] = entryLine(key, rawValue)
		return
	}

	d.AddSection(section)
	at := d.insertPoint(section)
	d.lines = append(d.lines, line{})
	copy(d.lines[at+1:], d.lines[at:])
	d.lines[at] = entryLine(key, rawValue)
}

// insertPoint is the index just after the last entry of the final block of
// section, or just after its header when that block has no entries.
func (d *Document) insertPoint(section string) int {
	header := -1
	for i, l := range d.lines {
		if l.kind == lineHeader && l.name == section {
			header = i
		}
	}

	at := header + 1
	for i := header + 1; i < len(d.lines); i++ {
		l := d.lines[i]
		if l.kind == lineHeader {
			break
		}
		if l.kind == lineEntry {
			at = i + 1
		}
	}
	return at
}

// RemoveSection drops every block of section: the header and all lines up
// to the next header. It reports whether anything was removed.
func (d *Document) RemoveSection(section string) bool {
	kept := d.lines[:0:0]
	removed := false
	skipping := false
	for _, l := range d.lines {
		if l.kind == lineHeader {
			skipping = l.name == section
			removed = removed || skipping
		}
		if !skipping {
			kept = append(kept, l)
		}
	}
	d.lines = kept
	return removed
}

// RemoveKey drops every occurrence of key in section. It reports whether
// anything was removed.
func (d *Document) RemoveKey(section, key string) bool {
	drop := make(map[int]bool)
	d.each(section, func(i int) {
		if d.lines[i].name == key {
			drop[i] = true
		}
	})
	if len(drop) == 0 {
		return false
	}

	kept := make([]line, 0, len(d.lines)-len(drop))
	for i, l := range d.lines {
		if !drop[i] {
			kept = append(kept, l)
		}
	}
	d.lines = kept
	return true
}

// RenameSection rewrites every header named from. Entries are untouched.
func (d *Document) RenameSection(from, to string) bool {
	renamed := false
	for i, l := range d.lines {
		if l.kind == lineHeader && l.name == from {
			d.lines[i] = headerLine(to)
			renamed = true
		}
	}
	return renamed
}

// CloneSection appends a new section dst holding the entries of src.
func (d *Document) CloneSection(src, dst string) {
	var raws []line
	for _, key := range d.Keys(src) {
		raw, _ := d.Raw(src, key)
		raws = append(raws, entryLine(key, raw))
	}
	d.AddSection(dst)
	d.lines = append(d.lines, raws...)
}
