package sppack

import (
	"log/slog"

	"github.com/sppack/sppack/internal/platform"
	"github.com/sppack/sppack/pkg/core"
	"github.com/sppack/sppack/pkg/engine"
)

// --- Types ---

// Source is a public alias for the content-source port.
type Source = core.Source

// Target is a public alias for the destination list coordinates.
type Target = core.Target

// LookupCatalog is a public alias for the lookup catalog.
type LookupCatalog = core.LookupCatalog

// Event is a public alias for generation progress events.
type Event = core.Event

// Generator is a public alias for the generation engine.
type Generator = engine.Generator

// Package is a public alias for the completed descriptor set.
type Package = engine.Package

// --- Configuration ---

// Option defines a functional option for configuring the generator.
type Option = platform.Option

// WithSource injects a custom content source.
func WithSource(src core.Source) Option {
	return platform.WithSource(src)
}

// WithSourceSiteURL overrides the source site URL recorded in the package.
func WithSourceSiteURL(url string) Option {
	return platform.WithSourceSiteURL(url)
}

// WithCatalog overrides the lookup catalog.
func WithCatalog(catalog core.LookupCatalog) Option {
	return platform.WithCatalog(catalog)
}

// WithTarget sets the destination list coordinates stamped into the package.
func WithTarget(target core.Target) Option {
	return platform.WithTarget(target)
}

// WithLogger sets the logger for the generator.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRenameColumns applies the static column rename table during encoding.
func WithRenameColumns(enabled bool) Option {
	return platform.WithRenameColumns(enabled)
}

// WithExclusions adds field names or glob patterns to drop.
func WithExclusions(patterns []string) Option {
	return platform.WithExclusions(patterns)
}

// WithWorkers bounds per-item parallelism.
func WithWorkers(n int) Option {
	return platform.WithWorkers(n)
}

// WithEvents registers a channel for progress events.
func WithEvents(events chan<- core.Event) Option {
	return platform.WithEvents(events)
}

// --- Factory ---

// New creates a configured Generator for one list. The URI is adapter
// specific; for the default fixture adapter it is a path to a fixture file.
func New(uri, listName string, opts ...Option) (*engine.Generator, error) {
	return platform.New(uri, listName, opts...)
}
