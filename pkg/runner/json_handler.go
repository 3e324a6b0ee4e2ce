package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/stepform/pkg/domain"
)

// Frame is one JSON line written by JSONHandler.
type Frame struct {
	Type    string           `json:"type"`
	View    *domain.StepView `json:"view,omitempty"`
	Prompt  *Prompt          `json:"prompt,omitempty"`
	Message string           `json:"message,omitempty"`
}

// Frame types.
const (
	FrameStep    = "step"
	FramePrompt  = "prompt"
	FrameMessage = "message"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Answers are read one per line, either as a JSON string or as raw text.
type JSONHandler struct {
	Reader    *bufio.Reader
	Encoder   *json.Encoder
	Sanitizer Sanitizer
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, view domain.StepView) error {
	masked := view.Masked()
	return h.Encoder.Encode(Frame{Type: FrameStep, View: &masked})
}

func (h *JSONHandler) Input(ctx context.Context, prompt Prompt) (string, error) {
	if prompt.Secret {
		prompt.Current = ""
	}
	if err := h.Encoder.Encode(Frame{Type: FramePrompt, Prompt: &prompt}); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err != nil {
		val = text
	}
	return h.Sanitizer.Sanitize(val)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Frame{Type: FrameMessage, Message: msg})
}
