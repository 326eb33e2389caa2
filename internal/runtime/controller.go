package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/guidebot/internal/logging"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/intent"
	"github.com/aretw0/guidebot/pkg/ports"
	"github.com/aretw0/guidebot/pkg/transcript"
)

// Graph is the read side of the dialogue graph the controller needs.
type Graph interface {
	Entry() domain.Node
	Resolve(key string) (domain.Node, bool)
}

// Classifier maps free text to a node key.
type Classifier interface {
	Classify(input string) intent.Result
}

// Option configures a Controller.
type Option func(*Controller)

// WithVisibility wires the host's open/closed signal.
// Without it the session is considered open until Close.
func WithVisibility(v ports.Visibility) Option {
	return func(c *Controller) {
		c.visibility = v
	}
}

// WithNavigator wires link following. Without it FollowLink is a no-op.
func WithNavigator(n ports.Navigator) Option {
	return func(c *Controller) {
		c.navigator = n
	}
}

// WithPacer sets the composing delay. Defaults to NoDelay.
func WithPacer(p ports.Pacer) Option {
	return func(c *Controller) {
		if p != nil {
			c.pacer = p
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the transcript timestamp source.
func WithClock(clock transcript.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.id = id
		}
	}
}

// Controller runs the request/response cycle of one chat session.
//
// Text submissions are answered asynchronously: the user entry is appended at once,
// then a single worker goroutine waits out the pacer and appends the bot reply.
// Pending replies are delivered in submission order. Option selections bypass the
// classifier and the pacer.
type Controller struct {
	id         string
	graph      Graph
	classifier Classifier
	transcript *transcript.Transcript
	visibility ports.Visibility
	navigator  ports.Navigator
	pacer      ports.Pacer
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	clock      transcript.Clock

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	phase   domain.TurnPhase
	queue   []string
	running bool
	drained chan struct{}
}

// NewController creates a session bound to graph and classifier.
// The welcome message is not appended until Open (or the first submission).
func NewController(graph Graph, classifier Classifier, opts ...Option) *Controller {
	c := &Controller{
		id:         uuid.NewString(),
		graph:      graph,
		classifier: classifier,
		pacer:      NoDelay,
		logger:     logging.NewNop(),
		phase:      domain.PhaseIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transcript = transcript.New(transcript.WithClock(c.clock))
	c.logger = c.logger.With("session_id", c.id)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Open renders the welcome message into an empty transcript.
// It reports whether the welcome entry was appended.
func (c *Controller) Open() bool {
	if !c.active() {
		return false
	}
	return c.open()
}

func (c *Controller) open() bool {
	welcome := c.graph.Entry()
	if !c.transcript.Initialize(welcome) {
		return false
	}
	e, _ := c.transcript.Last()
	c.logger.Debug("Session opened", "node", welcome.Key)
	if c.hooks.OnBotMessage != nil {
		c.hooks.OnBotMessage(c.ctx, &domain.MessageEvent{EventBase: c.event(domain.EventBotMessage), Entry: e, Source: "welcome"})
	}
	return true
}

// SubmitText appends the user's message and schedules the bot reply.
// Blank input, a hidden assistant or a closed session make it a no-op.
// It reports whether the input was accepted, i.e. whether the host should clear its input buffer.
func (c *Controller) SubmitText(input string) bool {
	if strings.TrimSpace(input) == "" || !c.active() {
		return false
	}
	c.open()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	e := c.transcript.Append(domain.SenderUser, input, nil)
	c.phase = domain.PhaseUserSubmitted
	c.mu.Unlock()

	if c.hooks.OnUserMessage != nil {
		c.hooks.OnUserMessage(c.ctx, &domain.MessageEvent{EventBase: c.event(domain.EventUserMessage), Entry: e, Source: "text"})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	c.queue = append(c.queue, input)
	c.phase = domain.PhaseComposing
	if !c.running {
		c.running = true
		c.drained = make(chan struct{})
		go c.drain(c.drained)
	}
	return true
}

// drain delivers queued replies until the queue is empty or the session closes.
// The worker keeps running while it announces the end of composing, so a submission
// arriving meanwhile is picked up here and its start event follows the end event.
func (c *Controller) drain(done chan struct{}) {
	defer close(done)

	c.composing(true, 0)

	var paced time.Duration
	for {
		c.mu.Lock()
		if c.closed {
			c.running = false
			c.mu.Unlock()
			return
		}
		if len(c.queue) == 0 {
			c.phase = domain.PhaseBotResponded
			c.mu.Unlock()

			c.composing(false, paced)

			c.mu.Lock()
			if c.closed || len(c.queue) == 0 {
				c.running = false
				c.mu.Unlock()
				return
			}
			c.phase = domain.PhaseComposing
			c.mu.Unlock()

			paced = 0
			c.composing(true, 0)
			continue
		}
		input := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		start := time.Now()
		if err := c.pacer.Pause(c.ctx); err != nil {
			c.logger.Debug("Pending reply discarded", "error", err)
			continue
		}
		paced += time.Since(start)

		c.reply(input)
	}
}

func (c *Controller) composing(active bool, delay time.Duration) {
	if c.hooks.OnComposing != nil {
		c.hooks.OnComposing(c.ctx, &domain.ComposingEvent{EventBase: c.event(domain.EventComposing), Active: active, Delay: delay})
	}
}

func (c *Controller) reply(input string) {
	res := c.classifier.Classify(input)
	if c.hooks.OnClassified != nil {
		c.hooks.OnClassified(c.ctx, &domain.ClassifiedEvent{
			EventBase: c.event(domain.EventClassified),
			Input:     input,
			Rule:      res.Rule,
			Target:    res.Target,
			Fallback:  res.Fallback,
		})
	}

	node, ok := c.graph.Resolve(res.Target)
	if !ok {
		c.logger.Warn("Intent target not in graph, using fallback", "target", res.Target, "rule", res.Rule)
		node, _ = c.graph.Resolve(domain.FallbackKey)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	e := c.transcript.Append(domain.SenderBot, node.Message, &node)
	c.mu.Unlock()

	c.logger.Debug("Bot replied", "rule", res.Rule, "node", node.Key)
	if c.hooks.OnBotMessage != nil {
		c.hooks.OnBotMessage(c.ctx, &domain.MessageEvent{EventBase: c.event(domain.EventBotMessage), Entry: e, Source: "text"})
	}
}

// SelectOption appends the target node's content as a bot entry, immediately.
// No user entry is recorded. An unknown target is a silent no-op.
func (c *Controller) SelectOption(target string) bool {
	if !c.active() {
		return false
	}
	node, ok := c.graph.Resolve(target)
	if !ok {
		c.logger.Debug("Option target not found", "target", target)
		return false
	}
	c.open()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	e := c.transcript.Append(domain.SenderBot, node.Message, &node)
	if !c.running {
		c.phase = domain.PhaseBotResponded
	}
	c.mu.Unlock()

	if c.hooks.OnBotMessage != nil {
		c.hooks.OnBotMessage(c.ctx, &domain.MessageEvent{EventBase: c.event(domain.EventBotMessage), Entry: e, Source: "option"})
	}
	return true
}

// FollowLink hands a node link to the host navigator.
// Internal links are routed in-app, external links open a new browsing context.
func (c *Controller) FollowLink(link domain.Link) error {
	if !c.active() || c.navigator == nil {
		return nil
	}

	var err error
	if link.External {
		err = c.navigator.OpenExternal(link.URL)
	} else {
		err = c.navigator.Navigate(link.URL)
	}
	if err != nil {
		c.logger.Warn("Navigation failed", "url", link.URL, "error", err)
	}
	if c.hooks.OnNavigate != nil {
		c.hooks.OnNavigate(c.ctx, &domain.NavigateEvent{EventBase: c.event(domain.EventNavigate), Link: link, Err: err})
	}
	return err
}

// Close discards pending replies, notifies the host and turns every later call into a no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.queue = nil
	c.phase = domain.PhaseIdle
	c.mu.Unlock()

	c.cancel()
	if c.visibility != nil {
		c.visibility.Close()
	}
	c.logger.Debug("Session closed")
	if c.hooks.OnClose != nil {
		base := c.event(domain.EventClose)
		c.hooks.OnClose(context.Background(), &base)
	}
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Phase returns the current turn phase.
func (c *Controller) Phase() domain.TurnPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Composing reports whether a reply is pending (the "typing" indicator).
func (c *Controller) Composing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && !c.closed
}

// Transcript returns a snapshot of the session's entries.
func (c *Controller) Transcript() []domain.Entry {
	return c.transcript.Entries()
}

// Last returns the most recent transcript entry.
func (c *Controller) Last() (domain.Entry, bool) {
	return c.transcript.Last()
}

// Flush blocks until no reply is pending or ctx is done.
func (c *Controller) Flush(ctx context.Context) error {
	for {
		c.mu.Lock()
		running, done := c.running, c.drained
		c.mu.Unlock()
		if !running {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Controller) active() bool {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return false
	}
	return c.visibility == nil || c.visibility.IsOpen()
}

func (c *Controller) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: c.id}
}
