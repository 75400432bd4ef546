package engine

import (
	"github.com/aretw0/introspection"
)

// GeneratorState exposes internal state for observability.
type GeneratorState struct {
	List          string `json:"list"`
	Workers       int    `json:"workers"`
	RenameColumns bool   `json:"rename_columns"`
	Items         int    `json:"items"`
	ItemsBuilt    int    `json:"items_built"`
	Versions      int    `json:"versions"`
	Identities    int    `json:"identities"`
}

// State implements introspection.Introspectable.
func (g *Generator) State() any {
	g.mu.Lock()
	defer g.mu.Unlock()

	return GeneratorState{
		List:          g.cfg.ListName,
		Workers:       g.cfg.Workers,
		RenameColumns: g.cfg.RenameColumns,
		Items:         g.stats.items,
		ItemsBuilt:    g.stats.itemsBuilt,
		Versions:      g.stats.versions,
		Identities:    g.identities.Len(),
	}
}

// ComponentType implements introspection.Component.
func (g *Generator) ComponentType() string {
	return "generator"
}

var _ introspection.Introspectable = (*Generator)(nil)
var _ introspection.Component = (*Generator)(nil)
