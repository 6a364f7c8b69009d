// Package reconstruct turns cognate forms into a reconstructed proto-form.
//
// An Engine chains the tokenizer, the aligner, the feature voter and the
// symbol resolver:
//
//	forms -> tokens -> columns -> theoretical segments -> symbols
//
// On top of single reconstructions it provides collapsing (greedy
// pairwise merging of the most similar forms), biased refinement,
// scoring against known answers and batch execution over many cognate
// sets.
//
// An Engine holds no mutable state besides the resolver cache and is
// safe for concurrent use. Everything a reconstruction observes along
// the way is returned in its Diagnostics.
package reconstruct

import (
	"io"
	"log/slog"

	"github.com/temporal-IPA/protoform/pkg/phono"
	"github.com/temporal-IPA/protoform/pkg/tokenize"
)

// DefaultResolverCache is the default number of memoised approximate
// resolutions.
const DefaultResolverCache = 4096

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug traces. The default logger
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithResolverCache sets the size of the resolver cache. Zero disables
// it.
func WithResolverCache(size int) Option {
	return func(e *Engine) { e.cacheSize = size }
}

// WithTokenizerOptions forwards options to the tokenizer.
func WithTokenizerOptions(opts ...tokenize.Option) Option {
	return func(e *Engine) { e.tokOpts = append(e.tokOpts, opts...) }
}

// Engine reconstructs proto-forms against one segment inventory.
type Engine struct {
	inv       *phono.Inventory
	tok       *tokenize.Tokenizer
	resolver  *phono.Resolver
	logger    *slog.Logger
	cacheSize int
	tokOpts   []tokenize.Option
}

// New creates an engine over inv.
func New(inv *phono.Inventory, opts ...Option) *Engine {
	e := &Engine{
		inv:       inv,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		cacheSize: DefaultResolverCache,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tok = tokenize.New(inv, e.tokOpts...)
	e.resolver = phono.NewResolver(inv, e.cacheSize)
	return e
}

// Inventory returns the engine's segment inventory.
func (e *Engine) Inventory() *phono.Inventory { return e.inv }

// Tokenizer returns the engine's tokenizer.
func (e *Engine) Tokenizer() *tokenize.Tokenizer { return e.tok }

// Resolver returns the engine's symbol resolver.
func (e *Engine) Resolver() *phono.Resolver { return e.resolver }
