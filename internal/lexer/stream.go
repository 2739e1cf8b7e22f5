package lexer

import (
	"github.com/ernestorb/vanillac/internal/pipeline"
	"github.com/ernestorb/vanillac/internal/token"
)

// sliceStream is a pipeline.TokenStream over a pre-scanned, finite token
// list — matching §6's scanner contract: "the scanner yields a finite
// ordered sequence of Token plus an error list; P consumes only the token
// list."
type sliceStream struct {
	tokens []token.Token
	pos    int
}

func (s *sliceStream) Next() token.Token {
	if s.pos >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1] // EOF, held in place
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

func (s *sliceStream) Peek(n int) []token.Token {
	end := s.pos + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	if s.pos > end {
		return nil
	}
	return s.tokens[s.pos:end]
}

var _ pipeline.TokenStream = (*sliceStream)(nil)

// Processor runs the lexer as the first pipeline stage, turning source text
// into a TokenStream for the parser to consume.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	l := New(ctx.SourceCode)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	ctx.TokenStream = &sliceStream{tokens: tokens}
	ctx.Errors = append(ctx.Errors, l.Errors...)
	return ctx
}
