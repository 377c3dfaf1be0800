package ini

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedArray is returned when an array value cannot be split.
var ErrMalformedArray = errors.New("malformed array value")

// JoinArray encodes elems as a single comma separated value. Elements that
// are empty or need quoting are quoted individually.
func JoinArray(elems []string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		if e == "" || NeedsQuoting(e) {
			parts[i] = Quote(e)
		} else {
			parts[i] = e
		}
	}
	return strings.Join(parts, ",")
}

type splitState int

const (
	stateStart splitState = iota
	stateBare
	stateQuoted
	stateEscape
	stateClosed
)

// SplitArray decodes a value produced by JoinArray. Commas split elements
// only outside quotes. Whitespace around unquoted elements is trimmed.
// An empty string is an empty array.
func SplitArray(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var (
		elems []string
		cur   strings.Builder
		state = stateStart
	)

	flush := func() {
		v := cur.String()
		if state == stateBare {
			v = strings.TrimSpace(v)
		}
		elems = append(elems, v)
		cur.Reset()
		state = stateStart
	}

	for i, r := range s {
		switch state {
		case stateStart:
			switch {
			case r == ',':
				flush()
			case r == '"':
				state = stateQuoted
			case r == ' ' || r == '\t':
			default:
				cur.WriteRune(r)
				state = stateBare
			}

		case stateBare:
			if r == ',' {
				flush()
				continue
			}
			if r == '"' {
				return nil, fmt.Errorf("%w: unexpected quote at offset %d", ErrMalformedArray, i)
			}
			cur.WriteRune(r)

		case stateQuoted:
			switch r {
			case '\\':
				state = stateEscape
			case '"':
				state = stateClosed
			default:
				cur.WriteRune(r)
			}

		case stateEscape:
			cur.WriteRune(unescapeRune(r))
			state = stateQuoted

		case stateClosed:
			switch r {
			case ',':
				// flush must not trim a quoted element.
				elems = append(elems, cur.String())
				cur.Reset()
				state = stateStart
			case ' ', '\t':
			default:
				return nil, fmt.Errorf("%w: unexpected %q after closing quote at offset %d", ErrMalformedArray, r, i)
			}
		}
	}

	switch state {
	case stateQuoted, stateEscape:
		return nil, fmt.Errorf("%w: unterminated quote", ErrMalformedArray)
	case stateClosed:
		elems = append(elems, cur.String())
	default:
		// A trailing comma leaves an empty unquoted element.
		flush()
	}
	return elems, nil
}
