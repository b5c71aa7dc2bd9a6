package parser

import (
	"log/slog"
)

// Parser turns rule text into conditions using one Grammar.
//
// A Parser holds no mutable state and may be shared.
type Parser struct {
	grammar *Grammar
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMode selects the grammar mode. The default is ModeStrict.
func WithMode(mode Mode) Option {
	return func(p *Parser) {
		p.grammar = GrammarFor(mode)
	}
}

// WithLogger sets the logger used for debug tracing of degraded fragments.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		grammar: strictGrammar,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the grammar mode the parser uses.
func (p *Parser) Mode() Mode {
	return p.grammar.Mode()
}
