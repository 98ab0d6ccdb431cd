// Package parsers holds the text parsers that turn fetched documents into
// domain records. Parsers are pure: no I/O, no shared state.
package parsers
