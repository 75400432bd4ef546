package platform

import (
	"log/slog"

	"github.com/sppack/sppack/pkg/core"
)

// options holds the internal configuration for a generator.
type options struct {
	source        core.Source
	sourceSiteURL string
	catalog       core.LookupCatalog
	target        core.Target
	logger        *slog.Logger
	renameColumns bool
	exclusions    []string
	workers       int
	events        chan<- core.Event
}

// Option defines a functional option for configuring the generator.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithSource injects a custom content source. When provided, the fixture
// file argument is ignored.
func WithSource(src core.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithSourceSiteURL overrides the source site URL recorded in the package.
// Defaults to the URL the source reports.
func WithSourceSiteURL(url string) Option {
	return func(o *options) {
		o.sourceSiteURL = url
	}
}

// WithCatalog overrides the lookup catalog. Defaults to the catalog the
// source provides, when it provides one.
func WithCatalog(catalog core.LookupCatalog) Option {
	return func(o *options) {
		o.catalog = catalog
	}
}

// WithTarget sets the destination list coordinates stamped into the package.
func WithTarget(target core.Target) Option {
	return func(o *options) {
		o.target = target
	}
}

// WithLogger sets the logger for the generator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRenameColumns applies the static column rename table during field
// encoding. Off by default.
func WithRenameColumns(enabled bool) Option {
	return func(o *options) {
		o.renameColumns = enabled
	}
}

// WithExclusions adds field names or glob patterns to drop, on top of the
// fixed exclusion set.
func WithExclusions(patterns []string) Option {
	return func(o *options) {
		o.exclusions = append(o.exclusions, patterns...)
	}
}

// WithWorkers bounds per-item parallelism. Zero or one means serial.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithEvents registers a channel for progress events. Sends never block; a
// full channel drops the event.
func WithEvents(events chan<- core.Event) Option {
	return func(o *options) {
		o.events = events
	}
}
