package guidebot_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/guidebot"
	"github.com/aretw0/guidebot/pkg/dsl"
	"github.com/aretw0/guidebot/pkg/intent"
)

// ExampleNew_memory builds a tiny assistant in code and runs one turn.
func ExampleNew_memory() {
	b := dsl.New()
	b.Add("welcome").
		Say("Hello! Ask me about pricing.").
		Option("Pricing", "pricing")
	b.Add("pricing").
		Say("Plans start at $49/month.")

	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := guidebot.New("",
		guidebot.WithLoader(loader),
		guidebot.WithRules(intent.KeywordRule("pricing", "pricing", "price", "cost")),
	)
	if err != nil {
		log.Fatal(err)
	}

	s := eng.NewSession()
	defer s.Close()

	s.Open()
	s.SubmitText("How much does it cost?")
	if err := s.Flush(context.Background()); err != nil {
		log.Fatal(err)
	}

	for _, e := range s.Transcript() {
		fmt.Printf("%s: %s\n", e.Sender, e.Text)
	}
	// Output:
	// bot: Hello! Ask me about pricing.
	// user: How much does it cost?
	// bot: Plans start at $49/month.
}
