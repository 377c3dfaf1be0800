package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user questions on in and writes prompts to out.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	reader      *bufio.Reader
	interactive bool
}

// NewPrompter returns a Prompter for in. Readline is used only when in is
// a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Prompter{
		in:          in,
		out:         out,
		reader:      bufio.NewReader(in),
		interactive: interactive,
	}
}

// Interactive reports whether prompts go to a terminal.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func (p *Prompter) newReadline(prompt string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		Stdin:           io.NopCloser(p.in),
		Stdout:          p.out,
		Stderr:          p.out,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	return rl, nil
}

func (p *Prompter) readLine(prompt string) (string, error) {
	if p.interactive {
		rl, err := p.newReadline(prompt)
		if err != nil {
			return "", err
		}
		defer rl.Close()
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return "", ErrAborted
		}
		return line, err
	}

	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no, and so is
// end of input.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.readLine(question + " [y/N]: ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// ReadSecret reads a value without echoing it on a terminal.
func (p *Prompter) ReadSecret(prompt string) (string, error) {
	if !p.interactive {
		return p.readLine(prompt)
	}
	rl, err := p.newReadline("")
	if err != nil {
		return "", err
	}
	defer rl.Close()
	b, err := rl.ReadPassword(prompt)
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrAborted
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadNewSecret reads a secret twice and fails when the entries differ.
func (p *Prompter) ReadNewSecret(prompt string) (string, error) {
	first, err := p.ReadSecret(prompt)
	if err != nil {
		return "", err
	}
	second, err := p.ReadSecret("Confirm " + strings.ToLower(prompt[:1]) + prompt[1:])
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("entries do not match")
	}
	return first, nil
}
