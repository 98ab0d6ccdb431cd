package driven

import "github.com/custodia-labs/quizdeck/internal/core/domain"

// RecordParser converts delimited text into records.
type RecordParser interface {
	// Parse returns the records in text, or an error describing why none
	// could be produced (domain.ErrEmptyDocument, domain.ErrNoDataRows).
	Parse(text string) (domain.RecordSet, error)
}

// SourceParser is implemented by parsers whose dialect depends on where the
// text came from. ForSource returns the parser to use for identifier.
type SourceParser interface {
	ForSource(identifier string) RecordParser
}
