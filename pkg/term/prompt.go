package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	xterm "github.com/charmbracelet/x/term"

	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
)

// Prompter asks questions on a terminal.
type Prompter struct {
	In  io.Reader
	Out io.Writer
	// AssumeYes answers every confirmation with yes without reading In.
	AssumeYes bool
	// Alerts counts Alert calls, so commands can exit non-zero after one.
	Alerts int

	once   sync.Once
	reader *bufio.Reader
}

// Alert prints msg as an error line.
func (p *Prompter) Alert(msg string) {
	p.Alerts++
	fmt.Fprintln(p.Out, ErrorTextStyle.Render(msg))
}

// Confirm prints msg and reads a y/N answer. Anything but y or yes,
// including end of input, is a no.
func (p *Prompter) Confirm(msg string) bool {
	if p.AssumeYes {
		return true
	}
	fmt.Fprint(p.Out, msg+" [y/N] ")
	line, err := p.lines().ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.Out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ReadLine prints label and returns the trimmed answer.
func (p *Prompter) ReadLine(label string) (string, error) {
	fmt.Fprint(p.Out, label)
	line, err := p.lines().ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("term: read %s: %w", strings.TrimSpace(label), err)
	}
	return strings.TrimSpace(line), nil
}

// ReadPassword prints label and reads an answer without echo when In is a
// terminal. Other readers fall back to ReadLine.
func (p *Prompter) ReadPassword(label string) (string, error) {
	f, ok := p.In.(*os.File)
	if !ok || !xterm.IsTerminal(f.Fd()) {
		return p.ReadLine(label)
	}
	fmt.Fprint(p.Out, label)
	b, err := xterm.ReadPassword(f.Fd())
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", fmt.Errorf("term: read %s: %w", strings.TrimSpace(label), err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (p *Prompter) lines() *bufio.Reader {
	p.once.Do(func() { p.reader = bufio.NewReader(p.In) })
	return p.reader
}

// Router tells the operator where the console asked to go.
type Router struct {
	Out       io.Writer
	LoginHint string
}

// ToLogin prints how to sign in.
func (r *Router) ToLogin() {
	if r.LoginHint != "" {
		fmt.Fprintln(r.Out, MutedStyle.Render(r.LoginHint))
	}
}

// ToConsole prints a confirmation.
func (r *Router) ToConsole() {
	fmt.Fprintln(r.Out, ResolvedStyle.Render("Logged in."))
}

// Modal stands in for an overlay; commands supply form values directly.
type Modal struct {
	Shown bool
}

// Show marks the modal shown.
func (m *Modal) Show() { m.Shown = true }

// Hide marks the modal hidden.
func (m *Modal) Hide() { m.Shown = false }

var (
	_ console.Prompter = (*Prompter)(nil)
	_ console.Router   = (*Router)(nil)
	_ console.Modal    = (*Modal)(nil)
)
