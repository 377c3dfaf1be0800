package ini

import (
	"fmt"

	"github.com/pnguyen215/shell-sub002/internal/text"
)

// Problem is one issue found by Validate.
type Problem struct {
	Line    int    `json:"line" yaml:"line"`
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Message)
}

// Validate reports malformed lines, names that break the editor's rules,
// duplicate keys within a section and empty values when those are not
// allowed. Line numbers start at 1.
func (e *Editor) Validate(path string) ([]Problem, error) {
	doc, err := e.Load(path)
	if err != nil {
		return nil, err
	}
	return doc.validate(e.opts), nil
}

func (d *Document) validate(opts Options) []Problem {
	var problems []Problem
	rules := text.Rules{Strict: opts.Strict, AllowSpaces: opts.AllowSpaces}

	current := ""
	seen := make(map[string]map[string]int)
	for i, l := range d.lines {
		num := i + 1
		switch l.kind {
		case lineMalformed:
			problems = append(problems, Problem{Line: num, Section: current, Message: "malformed line: expected key=value"})

		case lineHeader:
			current = l.name
			if err := text.ValidateSectionName(l.name, rules); err != nil {
				problems = append(problems, Problem{Line: num, Section: current, Message: err.Error()})
			}

		case lineEntry:
			if err := text.ValidateKeyName(l.name, rules); err != nil {
				problems = append(problems, Problem{Line: num, Section: current, Message: err.Error()})
			}
			if seen[current] == nil {
				seen[current] = make(map[string]int)
			}
			if first, dup := seen[current][l.name]; dup {
				problems = append(problems, Problem{
					Line:    num,
					Section: current,
					Message: fmt.Sprintf("duplicate key %q (first defined on line %d)", l.name, first),
				})
			} else {
				seen[current][l.name] = num
			}
			if l.value == "" && !opts.AllowEmptyValues {
				problems = append(problems, Problem{Line: num, Section: current, Message: fmt.Sprintf("key %q has an empty value", l.name)})
			}
		}
	}
	return problems
}
