// Package transcript implements the append-only message log of a chat session.
//
// Entry IDs are issued in append order starting at 1. Entries are never edited,
// reordered or removed; readers always receive copies.
package transcript
