// Package platform wires sources, catalogs and the generation engine behind
// the public facade. It decides where the content comes from and with what
// configuration the engine runs.
package platform

import (
	"fmt"

	"github.com/sppack/sppack/pkg/adapters/fixture"
	"github.com/sppack/sppack/pkg/core"
	"github.com/sppack/sppack/pkg/engine"
)

// catalogProvider is implemented by sources that carry their own lookup
// catalog and site URL, like the fixture adapter.
type catalogProvider interface {
	Catalog() core.LookupCatalog
	SiteURL() string
}

// New builds a configured generator for one list. The URI is adapter
// specific; for the default fixture adapter it is a path to a fixture file.
// An injected source (WithSource) takes precedence over the URI.
func New(uri, listName string, opts ...Option) (*engine.Generator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	src := o.source
	if src == nil {
		if uri == "" {
			return nil, fmt.Errorf("platform: no source and no fixture path configured")
		}
		loaded, err := fixture.Load(uri)
		if err != nil {
			return nil, err
		}
		src = loaded
	}

	// Sources that know their own catalog and site fill whatever the options
	// left unset.
	if provider, ok := src.(catalogProvider); ok {
		if o.catalog == nil {
			o.catalog = provider.Catalog()
		}
		if o.sourceSiteURL == "" {
			o.sourceSiteURL = provider.SiteURL()
		}
	}

	return engine.New(engine.Config{
		Source:          src,
		SourceSiteURL:   o.sourceSiteURL,
		Target:          o.target,
		Catalog:         o.catalog,
		ListName:        listName,
		RenameColumns:   o.renameColumns,
		ExtraExclusions: o.exclusions,
		Workers:         o.workers,
		Events:          o.events,
		Logger:          o.logger,
	})
}
