// Package dialogue holds the static conversation graph.
//
// A Graph is built once from a ports.GraphLoader, validated (entry node present,
// every option target resolves) and then only read. Lookups never fail loudly:
// a missing key is reported with a boolean.
package dialogue
