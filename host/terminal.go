package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/assistant"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/common"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

const wrapWidth = 80

var (
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

var presenceIcons = map[assistant.PresenceState]string{
	assistant.Resting:    "😴",
	assistant.Attentive:  "🐱",
	assistant.Processing: "⏳",
	assistant.Success:    "😸",
}

// Terminal implements assistant.Host on a terminal.
// Selections come from files, see SelectFile.
type Terminal struct {
	mu sync.Mutex

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// interactive is true when stdin and stdout are both terminals
	interactive bool
	line        *liner.State
	renderer    *glamour.TermRenderer

	selection    *assistant.Selection
	showPresence bool
}

// Option customizes a Terminal
type Option func(*Terminal)

// WithIO replaces the standard streams and disables line editing
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(t *Terminal) {
		t.in = bufio.NewReader(in)
		t.out = out
		t.errOut = errOut
		t.interactive = false
	}
}

// WithPresence prints avatar state changes to stderr
func WithPresence(show bool) Option {
	return func(t *Terminal) { t.showPresence = show }
}

// NewTerminal creates a host on the process' standard streams. Close must be called when done.
func NewTerminal(opts ...Option) *Terminal {
	t := &Terminal{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.interactive {
		t.line = liner.NewLiner()
		t.line.SetCtrlCAborts(true)

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			logger.Warnf("Markdown rendering disabled: %v", err)
		} else {
			t.renderer = renderer
		}
	}
	return t
}

// Close restores the terminal mode
func (t *Terminal) Close() error {
	if t.line != nil {
		return t.line.Close()
	}
	return nil
}

func (t *Terminal) ShowInfo(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, t.style(infoStyle, common.WrapString(message, wrapWidth)))
}

func (t *Terminal) ShowError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.errOut, t.style(errorStyle, message))
}

func (t *Terminal) ShowPanel(title, body string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out, t.style(titleStyle, title))
	if t.renderer != nil {
		if rendered, err := t.renderer.Render(body); err == nil {
			fmt.Fprint(t.out, rendered)
			return
		}
	}
	fmt.Fprintln(t.out, body)
}

func (t *Terminal) ShowPresence(state assistant.PresenceState) {
	logger.Debugf("Presence: %s", state)
	if !t.showPresence {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.errOut, t.style(hintStyle, presenceIcons[state]+" "+string(state)))
}

// ReadLine reads one line of user input; io.EOF or liner.ErrPromptAborted end the session
func (t *Terminal) ReadLine(prompt string) (string, error) {
	return t.readLine(prompt, "")
}

func (t *Terminal) PromptInput(ctx context.Context, opts assistant.InputOptions) (string, bool, error) {
	label := opts.Prompt
	if opts.Placeholder != "" && opts.Value == "" {
		label += " " + t.style(hintStyle, "("+opts.Placeholder+")")
	}
	label += ": "

	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}

		var value string
		var err error
		if opts.Secret {
			value, err = t.readSecret(label)
		} else {
			value, err = t.readLine(label, opts.Value)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}

		if opts.Validate != nil {
			if msg := opts.Validate(value); msg != "" {
				t.ShowError(msg)
				continue
			}
		}
		return value, true, nil
	}
}

func (t *Terminal) Confirm(ctx context.Context, message string, options ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, err := t.readLine(message+" ["+strings.Join(options, "/")+"]: ", "")
	if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return matchOption(value, options), nil
}

// matchOption accepts any case-insensitive prefix of an option
func matchOption(value string, options []string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	for _, option := range options {
		if strings.HasPrefix(strings.ToLower(option), value) {
			return option
		}
	}
	return ""
}

func (t *Terminal) readLine(prompt, value string) (string, error) {
	if t.line != nil {
		return t.line.PromptWithSuggestion(t.style(promptStyle, prompt), value, -1)
	}

	t.mu.Lock()
	fmt.Fprint(t.out, prompt)
	t.mu.Unlock()

	text, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		return "", err
	}
	text = strings.TrimRight(text, "\r\n")
	if text == "" && value != "" {
		return value, nil
	}
	return text, nil
}

func (t *Terminal) readSecret(prompt string) (string, error) {
	if !t.interactive {
		return t.readLine(prompt, "")
	}

	fmt.Fprint(t.out, t.style(promptStyle, prompt))
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret input: %w", err)
	}
	return string(secret), nil
}

func (t *Terminal) style(s lipgloss.Style, text string) string {
	if !t.interactive {
		return text
	}
	return s.Render(text)
}
