package delimited

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
)

// Ensure Parser implements the interfaces.
var (
	_ driven.RecordParser = (*Parser)(nil)
	_ driven.SourceParser = (*Parser)(nil)
)

const quote = '"'

// Parser parses delimited text with a single-character field separator.
type Parser struct {
	delimiter rune
	// fixed is set when the delimiter was chosen explicitly.
	fixed bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithDelimiter sets the field separator. Quotes and line breaks cannot be
// used as separators and are ignored.
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		if d == quote || d == '\n' || d == '\r' || d == utf8.RuneError {
			return
		}
		p.delimiter = d
		p.fixed = true
	}
}

// New creates a comma-separated parser. Through ForSource it switches to tabs
// for tab-separated sources.
func New(opts ...Option) *Parser {
	p := &Parser{delimiter: ','}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTSV creates a tab-separated parser.
func NewTSV() *Parser {
	return New(WithDelimiter('\t'))
}

// Parse returns the records in text.
// It returns domain.ErrEmptyDocument when text has no non-blank line and
// domain.ErrNoDataRows when only a header line is present.
func (p *Parser) Parse(text string) (records domain.RecordSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("parse: %v", r)
		}
	}()

	lines := splitRows(text)
	if len(lines) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if len(lines) < 2 {
		return nil, domain.ErrNoDataRows
	}

	headerCells := p.splitFields(lines[0])
	headers := make([]string, len(headerCells))
	for i, h := range headerCells {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	records = make(domain.RecordSet, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := p.splitFields(line)
		record := domain.NewRecord(len(headers))
		for i, h := range headers {
			value := ""
			if i < len(values) {
				value = strings.TrimSpace(values[i])
			}
			record.Set(h, value)
		}
		if record.IsBlank() {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ForSource returns the parser for text read from identifier. A parser with
// an explicit delimiter always returns itself. Otherwise .tsv and .tab paths
// and exports requested with format=tsv or output=tsv get a tab parser.
func (p *Parser) ForSource(identifier string) driven.RecordParser {
	if p.fixed || !IsTabSeparated(identifier) {
		return p
	}
	return NewTSV()
}

// IsTabSeparated reports whether identifier names a tab-separated document.
func IsTabSeparated(identifier string) bool {
	ext := filepath.Ext(identifier)
	if u, err := url.Parse(identifier); err == nil && u.Scheme != "" && u.Opaque == "" {
		ext = path.Ext(u.Path)
		query := u.Query()
		for _, key := range []string{"format", "output"} {
			if strings.EqualFold(query.Get(key), "tsv") {
				return true
			}
		}
	}
	switch strings.ToLower(ext) {
	case ".tsv", ".tab":
		return true
	}
	return false
}

// splitRows splits text on \n, \r or \r\n outside quotes and drops
// blank or whitespace-only rows.
func splitRows(text string) []string {
	var rows []string
	keep := func(row string) {
		if strings.TrimSpace(row) != "" {
			rows = append(rows, row)
		}
	}

	inQuotes := false
	start := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == quote:
			inQuotes = !inQuotes
		case (c == '\n' || c == '\r') && !inQuotes:
			keep(text[start:i])
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		keep(text[start:])
	}
	return rows
}

// splitFields splits one row into decoded field values.
func (p *Parser) splitFields(row string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(row); {
		r, size := utf8.DecodeRuneInString(row[i:])
		switch {
		case r == quote:
			if inQuotes && i+size < len(row) && row[i+size] == quote {
				field.WriteRune(quote)
				size++
			} else {
				inQuotes = !inQuotes
			}
		case r == p.delimiter && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteString(row[i : i+size])
		}
		i += size
	}
	return append(fields, field.String())
}
