package domain

// RawDocument is delimited text together with the identifier it came from.
// It is produced by a fetcher or the cache and consumed by the parser.
type RawDocument struct {
	// Identifier is the source URL, path or handle.
	Identifier string

	// Text is the unparsed document body.
	Text string
}
