package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/stepform/pkg/domain"
	"golang.org/x/term"
)

// TextHandler implements the interactive terminal interface.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Renderer  ContentRenderer
	Sanitizer Sanitizer

	// fd is the terminal descriptor used for hidden input, or -1.
	fd int

	requests  chan bool
	results   chan inputResult
	pending   bool
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerMaxInput limits the size of a single answer.
func WithTextHandlerMaxInput(n int) TextHandlerOption {
	return func(h *TextHandler) {
		h.Sanitizer.MaxSize = n
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		fd:     terminalFd(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// terminalFd returns the descriptor of r when it is an interactive terminal.
func terminalFd(r io.Reader) int {
	f, ok := r.(*os.File)
	if !ok {
		return -1
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return -1
	}
	return fd
}

// Reads happen on a pump goroutine so Input can honour ctx cancellation.
// The pump only reads when asked, so a hidden read never races a line read.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.requests = make(chan bool, 1)
		h.results = make(chan inputResult, 1)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for secret := range h.requests {
		text, err := h.read(secret)
		h.results <- inputResult{text: text, err: err}
	}
}

func (h *TextHandler) read(secret bool) (string, error) {
	if secret && h.fd >= 0 {
		b, err := term.ReadPassword(h.fd)
		fmt.Fprintln(h.Writer)
		return string(b), err
	}
	text, err := h.Reader.ReadString('\n')
	if err == io.EOF && text != "" {
		// Unterminated last line; the next read reports EOF.
		return text, nil
	}
	return text, err
}

// Output prints the step header, rendered through Renderer when set.
func (h *TextHandler) Output(ctx context.Context, view domain.StepView) error {
	output := StepMarkdown(view)
	if h.Renderer != nil {
		if rendered, err := h.Renderer(output); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output))
	return err
}

// Input prompts for one answer and retries on input the sanitizer rejects.
func (h *TextHandler) Input(ctx context.Context, prompt Prompt) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, promptLine(prompt))
		}

		if !h.pending {
			h.requests <- prompt.Secret
			h.pending = true
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res := <-h.results:
			h.pending = false
			if res.err != nil {
				return "", res.err
			}
			clean, err := h.Sanitizer.Sanitize(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a meta-message on its own line.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "! %s\n", msg)
	return err
}

func promptLine(p Prompt) string {
	var b strings.Builder
	b.WriteString(p.Label)
	if p.Required {
		b.WriteString("*")
	}
	if p.Current != "" {
		if p.Secret {
			b.WriteString(" [keep]")
		} else {
			fmt.Fprintf(&b, " [%s]", p.Current)
		}
	}
	b.WriteString(": ")
	return b.String()
}
