package boardconfig

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/openfroyo/boardcfg/pkg/pins"
)

// Parser applies board.txt lines to an entry table.
type Parser struct {
	resolver pins.Resolver
	logger   zerolog.Logger
	foreign  []*Table
	skipAll  bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used to report rejected lines.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithForeignKeys makes keys found in tables silently skipped instead of
// reported as unknown. The bootstrap uses it so that each pass ignores the
// keys the other pass owns.
func WithForeignKeys(tables ...*Table) Option {
	return func(p *Parser) {
		p.foreign = append(p.foreign, tables...)
	}
}

// SkipUnknownKeys counts every unknown key as skipped without recording an
// issue, for passes that only look for a few keys.
func SkipUnknownKeys() Option {
	return func(p *Parser) {
		p.skipAll = true
	}
}

// NewParser creates a parser resolving pin tokens with resolver. A nil
// resolver accepts numeric pin literals only.
func NewParser(resolver pins.Resolver, opts ...Option) *Parser {
	p := &Parser{
		resolver: resolver,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type truncater interface {
	Truncated() bool
}

// Parse reads src to the end, applying every recognised line to table.
// Malformed lines and tokens are recorded in the report and skipped. The
// returned error is non-nil only when src fails to read; lines before the
// failure stay applied.
func (p *Parser) Parse(src LineSource, table *Table) (*Report, error) {
	rep := &Report{}
	tr, _ := src.(truncater)

	for lineNo := 1; ; lineNo++ {
		text, err := src.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rep, nil
			}
			pe := &ParseError{Class: ClassStream, Line: lineNo, Err: err}
			rep.add(pe)
			p.logger.Error().Err(err).Int("line", lineNo).Msg("Failed to read configuration")
			return rep, pe
		}

		rep.Lines++
		if tr != nil && tr.Truncated() {
			rep.Truncated++
			p.logger.Debug().Int("line", lineNo).Str("text", text).Msg("Line truncated")
		}
		p.apply(lineNo, text, table, rep)
	}
}

// ParseReader parses r with the bounded LineReader.
func (p *Parser) ParseReader(r io.Reader, table *Table) (*Report, error) {
	return p.Parse(NewLineReader(r), table)
}

func (p *Parser) apply(lineNo int, text string, table *Table, rep *Report) {
	line := ParseLine(text)

	switch line.Kind {
	case LineEmpty:
		rep.Empty++
		return
	case LineComment:
		rep.Comments++
		return
	}

	entry, ok := table.Lookup(line.Key)
	if !ok {
		if p.skipAll || p.isForeign(line.Key) {
			rep.Skipped++
			return
		}
		rep.Unknown++
		rep.add(lineError(ClassSemantic, lineNo, line.Key, "", text, ErrUnknownKey))
		p.logger.Debug().Int("line", lineNo).Str("key", line.Key).Msg("Ignoring unknown key")
		return
	}

	if (line.Kind == LineArray) != entry.IsArray() {
		p.reject(rep, lineError(ClassLine, lineNo, entry.Key, "", text, ErrShapeMismatch))
		return
	}

	if line.Kind == LineScalar {
		if err := entry.Decode(line.Value, p.resolver); err != nil {
			p.reject(rep, lineError(ClassToken, lineNo, entry.Key, line.Value, text, err))
			return
		}
		rep.Applied++
		return
	}

	tokens, err := splitArray(line.Body, entry.Capacity)
	if err != nil {
		p.reject(rep, lineError(ClassLine, lineNo, entry.Key, "", text, err))
		return
	}

	values := make([]pins.Pin, len(tokens))
	for i, tok := range tokens {
		pin, ok := resolve(p.resolver, tok)
		if !ok {
			pin = pins.NoPin
			p.reject(rep, lineError(ClassToken, lineNo, entry.Key, tok, text, ErrPinNotFound))
		}
		values[i] = pin
	}
	if err := entry.StorePins(values); err != nil {
		p.reject(rep, lineError(ClassLine, lineNo, entry.Key, "", text, err))
		return
	}
	rep.Applied++
}

func (p *Parser) isForeign(key string) bool {
	for _, t := range p.foreign {
		if _, ok := t.Lookup(key); ok {
			return true
		}
	}
	return false
}

func (p *Parser) reject(rep *Report, e *ParseError) {
	rep.add(e)
	ev := p.logger.Warn().
		Int("line", e.Line).
		Str("key", e.Key).
		Str("class", string(e.Class)).
		Str("text", e.Text)
	if e.Token != "" {
		ev = ev.Str("token", e.Token)
	}
	ev.Err(e.Err).Msg("Rejected configuration line")
}
