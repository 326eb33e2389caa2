package host

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/aretw0/guidebot/internal/logging"
)

// ErrUnsafeURL is returned for external links whose scheme is not allowed.
var ErrUnsafeURL = errors.New("unsafe url")

var allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true}

// WriterNavigator prints navigation requests instead of performing them.
// It serves terminals and logs, where there is no router or browser.
type WriterNavigator struct {
	w      io.Writer
	base   string
	logger *slog.Logger
}

// NavigatorOption configures a WriterNavigator.
type NavigatorOption func(*WriterNavigator)

// WithBaseURL resolves internal routes against base when printing them.
func WithBaseURL(base string) NavigatorOption {
	return func(n *WriterNavigator) {
		n.base = strings.TrimRight(base, "/")
	}
}

// WithNavigatorLogger sets the logger.
func WithNavigatorLogger(logger *slog.Logger) NavigatorOption {
	return func(n *WriterNavigator) {
		n.logger = logger
	}
}

// NewWriterNavigator creates a navigator that writes to w.
func NewWriterNavigator(w io.Writer, opts ...NavigatorOption) *WriterNavigator {
	n := &WriterNavigator{w: w, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *WriterNavigator) Navigate(path string) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	n.logger.Debug("Navigate", "path", path)
	_, err := fmt.Fprintf(n.w, "[navigate] %s%s\n", n.base, path)
	return err
}

func (n *WriterNavigator) OpenExternal(raw string) error {
	if err := checkExternal(raw); err != nil {
		return err
	}
	n.logger.Debug("Open external", "url", raw)
	_, err := fmt.Fprintf(n.w, "[open] %s\n", raw)
	return err
}

func checkExternal(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: scheme %q", ErrUnsafeURL, u.Scheme)
	}
	return nil
}

// Visit is a navigation request recorded by a Recorder.
type Visit struct {
	URL      string `json:"url"`
	External bool   `json:"external"`
}

// Recorder is a Navigator that records requests, for hosts that apply navigation later
// (such as an HTTP response) and for tests.
type Recorder struct {
	mu     sync.Mutex
	visits []Visit
}

func (r *Recorder) Navigate(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, Visit{URL: path})
	return nil
}

func (r *Recorder) OpenExternal(raw string) error {
	if err := checkExternal(raw); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, Visit{URL: raw, External: true})
	return nil
}

// Visits returns the recorded requests in order.
func (r *Recorder) Visits() []Visit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Visit(nil), r.visits...)
}
