/*
Package dsl provides a fluent builder for constructing dialogue graphs in Go code.

It is useful for tests and for embedding small assistants without shipping YAML or
Markdown files.

	b := dsl.New()

	b.Add("welcome").
		Say("Hi! What do you need?").
		Option("Pricing", "pricing").
		External("Docs", "https://docs.example.com")

	b.Add("pricing").
		Say("We have three plans.").
		Link("Compare plans", "/pricing")

	loader, err := b.Build() // a ports.GraphLoader
*/
package dsl
