package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/sppack/sppack/pkg/core"
)

// Config configuration for one package generation run.
type Config struct {
	Source        core.Source
	SourceSiteURL string
	Target        core.Target
	Catalog       core.LookupCatalog
	ListName      string

	// RenameColumns applies the static rename table when the target schema
	// differs from the source schema.
	RenameColumns bool

	// ExtraExclusions are additional field names or glob patterns to drop,
	// on top of the fixed exclusion set.
	ExtraExclusions []string

	// Workers bounds per-item parallelism. Zero or one means serial.
	Workers int

	// Events receives progress notifications when set. Sends never block; a
	// full channel drops the event.
	Events chan<- core.Event

	Logger *slog.Logger
}

// Package is the completed descriptor set for one run.
type Package struct {
	Files []core.PackageFile
}

// Size returns the total byte length across all descriptor files.
func (p *Package) Size() int {
	total := 0
	for _, f := range p.Files {
		total += len(f.Contents)
	}
	return total
}

// File returns the descriptor with the given name.
func (p *Package) File(name string) (core.PackageFile, bool) {
	for _, f := range p.Files {
		if f.Name == name {
			return f, true
		}
	}
	return core.PackageFile{}, false
}

// Generator runs the full pipeline: fetch source items, build the object
// graph, resolve identities and lookups, and serialize the descriptor set.
// A Generator is good for one run at a time.
type Generator struct {
	cfg        Config
	identities *IdentityStore
	lookups    *LookupResolver
	mapper     *FieldMapper
	logger     *slog.Logger

	mu    sync.Mutex
	stats generatorStats
}

type generatorStats struct {
	items      int
	itemsBuilt int
	versions   int
}

// New creates a Generator from the given configuration.
func New(cfg Config) (*Generator, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("engine: no source configured")
	}
	if cfg.ListName == "" {
		return nil, fmt.Errorf("engine: no list name configured")
	}

	ids := NewIdentityStore()
	lookups := NewLookupResolver(cfg.Catalog)
	exclusions := DefaultExclusions()
	if len(cfg.ExtraExclusions) > 0 {
		exclusions = exclusions.Extend(cfg.ExtraExclusions)
	}
	mapper := NewFieldMapper(DefaultRenameTable(), cfg.RenameColumns, exclusions, ids, lookups)

	return &Generator{
		cfg:        cfg,
		identities: ids,
		lookups:    lookups,
		mapper:     mapper,
		logger:     cfg.Logger,
	}, nil
}

// Generate produces the seven-document package for the configured list.
// The run either completes with the full package or aborts with an error
// naming the failing item or field; no partial package is returned.
func (g *Generator) Generate(ctx context.Context) (*Package, error) {
	if g.logger != nil {
		g.logger.Info("generating migration package", "list", g.cfg.ListName)
	}
	g.emit(core.Event{Type: core.EventRunStarted, List: g.cfg.ListName})

	fields, err := g.cfg.Source.Fields(ctx, g.cfg.ListName)
	if err != nil {
		return nil, fmt.Errorf("fetch fields: %w", err)
	}
	items, err := g.cfg.Source.ListItems(ctx, g.cfg.ListName)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	g.mu.Lock()
	g.stats.items = len(items)
	g.mu.Unlock()

	builder := NewBuilder(g.cfg.Target, fields, g.mapper, g.identities, g.logger)
	nodes, err := g.buildAll(ctx, builder, items)
	if err != nil {
		return nil, err
	}

	// The principal running the migration belongs in the identity set even
	// if it authored nothing.
	principal, err := g.cfg.Source.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNoCurrentUser, err)
	}
	g.identities.Resolve(principal)

	if err := g.finalizeIdentities(ctx); err != nil {
		return nil, err
	}

	serializer := NewSerializer(g.cfg.SourceSiteURL, g.cfg.Target, g.lookups, g.logger)
	files, err := serializer.Serialize(nodes, g.identities.Identities(), fields)
	if err != nil {
		return nil, err
	}

	pkg := &Package{Files: files}
	g.emit(core.Event{
		Type:  core.EventRunCompleted,
		List:  g.cfg.ListName,
		Files: len(pkg.Files),
		Bytes: pkg.Size(),
	})
	if g.logger != nil {
		g.logger.Info("generated migration package",
			"files", len(pkg.Files),
			"bytes", pkg.Size(),
			"items", len(nodes),
			"identities", g.identities.Len(),
		)
	}
	return pkg, nil
}

// buildAll fans the items out over a bounded pool of workers. Results keep
// the source ordering regardless of completion order; the first error wins
// and cancels the remaining work.
func (g *Generator) buildAll(ctx context.Context, builder *Builder, items []core.SourceItem) ([]core.ContentItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	workers := g.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	nodes := make([]core.ContentItem, len(items))
	indexes := make(chan int)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		lifecycle.Go(runCtx, func(ctx context.Context) error {
			defer wg.Done()
			for i := range indexes {
				node, err := builder.Build(ctx, g.cfg.Source, items[i])
				if err != nil {
					select {
					case errs <- err:
					default:
					}
					cancel()
					return err
				}
				nodes[i] = node
				g.recordBuilt(len(node.Versions))
				g.emit(core.Event{
					Type:     core.EventItemBuilt,
					List:     g.cfg.ListName,
					Item:     items[i].IntID,
					Versions: len(node.Versions),
				})
			}
			return nil
		}, lifecycle.WithErrorHandler(func(err error) {
			// Panics inside a worker surface here; the deferred Done above
			// still runs during unwinding, so only report and cancel.
			select {
			case errs <- fmt.Errorf("build worker: %w", err):
			default:
			}
			cancel()
		}))
	}

feed:
	for i := range items {
		select {
		case indexes <- i:
		case <-runCtx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (g *Generator) emit(e core.Event) {
	if g.cfg.Events == nil {
		return
	}
	select {
	case g.cfg.Events <- e:
	default:
	}
}

func (g *Generator) recordBuilt(versions int) {
	g.mu.Lock()
	g.stats.itemsBuilt++
	g.stats.versions += versions
	g.mu.Unlock()
}

// finalizeIdentities runs the collaborator round trips that classify every
// resolved identity (user-info catalog, then profiles) and applies the
// deletion/system-id rules.
func (g *Generator) finalizeIdentities(ctx context.Context) error {
	refs := g.identities.Refs()

	info, err := g.cfg.Source.UserInfoList(ctx, refs)
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	profiles, err := g.cfg.Source.UserProfiles(ctx, refs)
	if err != nil {
		return fmt.Errorf("fetch user profiles: %w", err)
	}

	g.identities.Finalize(info, profiles)
	return nil
}
