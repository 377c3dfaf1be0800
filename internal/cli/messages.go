package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("%s %v", text.FgRed.Sprint("Error:"), err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return fmt.Sprintf("%s %s", text.FgGreen.Sprint("✓"), msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return fmt.Sprintf("%s %s", text.FgYellow.Sprint("⚠"), msg)
}

// Messenger writes human-oriented status lines. Quiet mode and structured
// output suppress everything but warnings.
type Messenger struct {
	out   io.Writer
	quiet bool
}

// NewMessenger returns a Messenger writing to out.
func NewMessenger(out io.Writer, quiet bool) *Messenger {
	return &Messenger{out: out, quiet: quiet}
}

// Success prints a check-marked line.
func (m *Messenger) Success(format string, args ...any) {
	if m.quiet {
		return
	}
	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf(format, args...)))
}

// Info prints a plain line.
func (m *Messenger) Info(format string, args ...any) {
	if m.quiet {
		return
	}
	fmt.Fprintf(m.out, format+"\n", args...)
}

// Warn prints a warning line, even in quiet mode.
func (m *Messenger) Warn(format string, args ...any) {
	fmt.Fprintln(m.out, FormatWarning(fmt.Sprintf(format, args...)))
}

// Spin shows a spinner with suffix until the returned stop function is
// called. Nothing is drawn in quiet mode or when the output is not a
// terminal.
func (m *Messenger) Spin(suffix string) (stop func()) {
	f, ok := m.out.(*os.File)
	if m.quiet || !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(f))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}
