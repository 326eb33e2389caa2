// Package memory provides an in-memory ports.GraphLoader, used by tests and by the DSL builder.
package memory
