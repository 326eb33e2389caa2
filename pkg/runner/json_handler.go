package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/guidebot/pkg/domain"
)

// JSONEvent is one line of the NDJSON output stream.
type JSONEvent struct {
	Type    string        `json:"type"`
	Entry   *domain.Entry `json:"entry,omitempty"`
	Active  *bool         `json:"active,omitempty"`
	Message string        `json:"message,omitempty"`
}

// JSONInput is the structured form of an input line.
// Plain text and JSON strings are accepted too.
type JSONInput struct {
	Text    string `json:"text,omitempty"`
	Command string `json:"command,omitempty"`
}

// JSONHandler implements IOHandler over JSON-Lines, for hosts that drive the chat programmatically.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
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

// Render emits every entry, user entries included, so the stream is a full transcript.
func (h *JSONHandler) Render(ctx context.Context, entry domain.Entry) error {
	return h.Encoder.Encode(JSONEvent{Type: "entry", Entry: &entry})
}

func (h *JSONHandler) Composing(ctx context.Context, active bool) error {
	return h.Encoder.Encode(JSONEvent{Type: "composing", Active: &active})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(JSONEvent{Type: "system", Message: msg})
}

// Input reads a line holding a JSON string, a JSONInput object or raw text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s, nil
	}
	var in JSONInput
	if err := json.Unmarshal([]byte(text), &in); err == nil && (in.Text != "" || in.Command != "") {
		if in.Command != "" {
			return in.Command, nil
		}
		return in.Text, nil
	}
	return text, nil
}
