// Package intent maps free-text user input to a dialogue node.
//
// A Classifier holds an ordered list of (predicate, target) rules terminated by an
// always-true rule that targets the fallback response. Input is lower-cased before
// matching and nothing else: no stemming, trimming or punctuation stripping.
//
//	c := intent.New(
//	    intent.KeywordRule("gdpr", "regulations", "gdpr", "general data protection regulation"),
//	    intent.KeywordRule("privacy", "privacy", "privacy", "compliance"),
//	)
//	c.Classify("Tell me about GDPR").Target // "regulations"
//	c.Classify("xyzzy").Target             // "fallback"
package intent
