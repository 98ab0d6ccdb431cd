// Package delimited parses spreadsheet exports (CSV, TSV) into header-keyed
// records.
//
// The parser is tolerant rather than strict: quoted fields may contain the
// separator, doubled quotes and raw line breaks; blank lines are skipped;
// short rows are padded and long rows truncated to the header width. It never
// validates a schema beyond mapping cells to lower-cased header names.
//
// Parse reports why a document produced no records; callers decide whether
// that is fatal. ForSource picks the separator from the source identifier,
// so one parser serves both CSV and TSV sources.
package delimited
