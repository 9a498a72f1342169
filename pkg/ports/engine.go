package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/transform"
)

// Engine is the surface the HTTP and MCP adapters drive. Every call is
// independent; nothing is kept between requests apart from the cache.
type Engine interface {
	// Parse validates a machine document.
	Parse(ctx context.Context, data []byte, allowMultiTape bool) (*domain.Spec, error)

	// Run executes spec until it halts or maxSteps is reached. Zero uses the
	// engine default.
	Run(ctx context.Context, spec *domain.Spec, maxSteps int) (*domain.RunReport, error)

	// Transform rewrites a single-tape spec into an equivalent machine.
	Transform(ctx context.Context, kind string, spec *domain.Spec) (*transform.Result, error)
}
