package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/guidebot/internal/runtime"
	"github.com/aretw0/guidebot/pkg/dialogue"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/dsl"
	"github.com/aretw0/guidebot/pkg/intent"
	"github.com/aretw0/guidebot/pkg/runner"
)

type recordingNavigator struct {
	routes    []string
	externals []string
}

func (n *recordingNavigator) Navigate(path string) error {
	n.routes = append(n.routes, path)
	return nil
}

func (n *recordingNavigator) OpenExternal(url string) error {
	n.externals = append(n.externals, url)
	return nil
}

func newSession(t *testing.T, opts ...runtime.Option) *runtime.Controller {
	t.Helper()

	b := dsl.New()
	b.Add("welcome").
		Say("Hi! What brings you here?").
		Option("Regulations", "regulations").
		Option("Pricing", "pricing")
	b.Add("regulations").
		Say("We cover GDPR.").
		Option("Back", "welcome").
		Option("Pricing", "pricing").
		External("GDPR text", "https://gdpr-info.eu").
		Link("Checklists", "/toolkit/checklists")
	b.Add("pricing").Say("Plans start at $49/month.")

	loader, err := b.Build()
	require.NoError(t, err)

	classifier := intent.New(intent.KeywordRule("gdpr", "regulations", "gdpr"))
	graph, err := dialogue.Build(loader, dialogue.WithRuleTargets(classifier.Targets()))
	require.NoError(t, err)

	return runtime.NewController(graph, classifier, opts...)
}

func TestRunner_TextConversation(t *testing.T) {
	nav := &recordingNavigator{}
	s := newSession(t, runtime.WithNavigator(nav))

	in := strings.NewReader("tell me about gdpr\n/links\n/open 1\n/open 2\n2\n9\nexit\n")
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(in, &out)),
		runner.WithHeadless(true),
	)

	require.NoError(t, r.Run(context.Background(), s))

	got := out.String()
	assert.Contains(t, got, "Assistant: Hi! What brings you here?")
	assert.Contains(t, got, "  [1] Regulations")
	assert.Contains(t, got, "Assistant: We cover GDPR.")
	assert.Contains(t, got, "(link 1) GDPR text <https://gdpr-info.eu>")
	assert.Contains(t, got, "1. GDPR text https://gdpr-info.eu")
	assert.Contains(t, got, "Assistant: Plans start at $49/month.")
	assert.Contains(t, got, "[There is no option 9.]")
	assert.Contains(t, got, "[Chat closed.]")
	assert.NotContains(t, got, "tell me about gdpr", "user entries are not echoed")

	assert.Equal(t, []string{"https://gdpr-info.eu"}, nav.externals)
	assert.Equal(t, []string{"/toolkit/checklists"}, nav.routes)
	assert.True(t, s.Closed())
}

func TestRunner_EOFClosesSession(t *testing.T) {
	s := newSession(t)
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("gdpr"), &out)))

	require.NoError(t, r.Run(context.Background(), s))

	assert.Contains(t, out.String(), runner.HelpText)
	assert.Contains(t, out.String(), "We cover GDPR.")
	assert.True(t, s.Closed())
}

func TestRunner_RejectsOversizedInput(t *testing.T) {
	s := newSession(t)
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("this is far too long\n"), &out)),
		runner.WithMaxInputSize(5),
		runner.WithHeadless(true),
	)

	require.NoError(t, r.Run(context.Background(), s))

	assert.Contains(t, out.String(), "Please try again.")
	assert.Len(t, s.Transcript(), 1, "only the welcome entry")
}

func TestRunner_JSONStream(t *testing.T) {
	s := newSession(t, runtime.WithPacer(runtime.Delay(200*time.Millisecond)))
	in := strings.NewReader(`{"text":"gdpr"}` + "\n" + `"1"` + "\n" + `{"command":"/close"}` + "\n")
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewJSONHandler(in, &out)),
		runner.WithHeadless(true),
	)

	require.NoError(t, r.Run(context.Background(), s))

	var events []runner.JSONEvent
	dec := json.NewDecoder(&out)
	for dec.More() {
		var ev runner.JSONEvent
		require.NoError(t, dec.Decode(&ev))
		events = append(events, ev)
	}

	var senders []domain.Sender
	var composing []bool
	for _, ev := range events {
		switch ev.Type {
		case "entry":
			senders = append(senders, ev.Entry.Sender)
		case "composing":
			composing = append(composing, *ev.Active)
		}
	}
	assert.Equal(t, []domain.Sender{domain.SenderBot, domain.SenderUser, domain.SenderBot, domain.SenderBot}, senders)
	assert.Equal(t, []bool{true, false}, composing)
	assert.Equal(t, "system", events[len(events)-1].Type)
}

func TestRunner_ContextCancelled(t *testing.T) {
	s := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &out)),
		runner.WithHeadless(true),
	)
	require.NoError(t, r.Run(ctx, s))
	assert.True(t, s.Closed())
}
