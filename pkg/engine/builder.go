package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sppack/sppack/pkg/core"
)

// orderStep spaces item ordinals so later inserts can land between existing
// items without renumbering.
const orderStep = 100

// Builder constructs package-native item nodes from source items.
// Each node gets freshly generated identifiers, encoded current fields and,
// when the source stores history, the ordered historical version nodes.
type Builder struct {
	target     core.Target
	fields     []core.FieldDefinition
	mapper     *FieldMapper
	identities *IdentityStore
	logger     *slog.Logger
}

// NewBuilder creates a builder over the list's field definitions.
func NewBuilder(target core.Target, fields []core.FieldDefinition, mapper *FieldMapper, ids *IdentityStore, logger *slog.Logger) *Builder {
	return &Builder{
		target:     target,
		fields:     fields,
		mapper:     mapper,
		identities: ids,
		logger:     logger,
	}
}

// Build constructs the ContentItem node for one source item, fetching its
// stored versions through src. Any unresolvable reference or unparseable
// timestamp aborts the build of this item.
func (b *Builder) Build(ctx context.Context, src core.Source, item core.SourceItem) (core.ContentItem, error) {
	created, err := core.NormalizeTimestamp(item.Created)
	if err != nil {
		return core.ContentItem{}, fmt.Errorf("item %d: created: %w", item.IntID, err)
	}
	modified, err := core.NormalizeTimestamp(item.Modified)
	if err != nil {
		return core.ContentItem{}, fmt.Errorf("item %d: modified: %w", item.IntID, err)
	}

	fields, err := b.buildFields(item.ContentTypeID, item.Values, item.Users)
	if err != nil {
		return core.ContentItem{}, fmt.Errorf("item %d: %w", item.IntID, err)
	}

	node := core.ContentItem{
		ID:               uuid.NewString(),
		DocID:            uuid.NewString(),
		IntID:            item.IntID,
		Name:             item.Name,
		URL:              item.URL,
		DirName:          b.target.ListURL(),
		Order:            item.IntID * orderStep,
		Version:          item.Version,
		ContentTypeID:    item.ContentTypeID,
		TimeCreated:      created,
		TimeLastModified: modified,
		Author:           b.identities.Resolve(item.Author).ID,
		Editor:           b.identities.Resolve(item.Editor).ID,
		Fields:           fields,
	}

	node.Versions, err = b.buildVersions(ctx, src, item)
	if err != nil {
		return core.ContentItem{}, err
	}

	if b.logger != nil {
		b.logger.Debug("built item node",
			"item", item.IntID, "fields", len(node.Fields), "versions", len(node.Versions))
	}
	return node, nil
}

// buildVersions flattens the item's stored history into version nodes.
// The source reports snapshots newest first with the current one at index
// zero; the current snapshot is already represented by the item node itself,
// so N stored snapshots yield N-1 version nodes, newest first.
func (b *Builder) buildVersions(ctx context.Context, src core.Source, item core.SourceItem) ([]core.ItemVersion, error) {
	stored, err := src.Versions(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("item %d: fetch versions: %w", item.IntID, err)
	}
	if len(stored) <= 1 {
		return nil, nil
	}

	versions := make([]core.ItemVersion, 0, len(stored)-1)
	for _, snap := range stored[1:] {
		modified, err := core.NormalizeTimestamp(snap.Modified)
		if err != nil {
			return nil, fmt.Errorf("item %d version %s: modified: %w", item.IntID, snap.Label, err)
		}

		fields, err := b.mapSnapshot(snap.Values, snap.Users)
		if err != nil {
			return nil, fmt.Errorf("item %d version %s: %w", item.IntID, snap.Label, err)
		}

		// Snapshots taken before a content-type switch keep the type they
		// were saved with.
		contentType := snap.ContentTypeID
		if contentType == "" {
			contentType = item.ContentTypeID
		}

		versions = append(versions, core.ItemVersion{
			Label:            snap.Label,
			TimeLastModified: modified,
			ContentTypeID:    contentType,
			Author:           b.identities.Resolve(snap.Author).ID,
			Editor:           b.identities.Resolve(snap.Editor).ID,
			Fields:           fields,
		})
	}
	return versions, nil
}

// buildFields produces the current snapshot's field set. The content-type
// linkage is carried as two fixed leading fields; the schema-driven fields
// follow, deduplicated by emitted name.
func (b *Builder) buildFields(contentTypeID string, values map[string]string, users map[string][]core.UserRef) ([]core.FieldValue, error) {
	mapped, err := b.mapSnapshot(values, users)
	if err != nil {
		return nil, err
	}

	fields := make([]core.FieldValue, 0, len(mapped)+2)
	fields = append(fields,
		core.FieldValue{Name: "ContentTypeId", Value: contentTypeID},
		core.FieldValue{Name: "ContentType", Value: "Item"},
	)
	return append(fields, mapped...), nil
}

// mapSnapshot runs every schema field through the mapper against one
// snapshot's raw values. Emitted names are unique: when two source columns
// rename onto the same target name, the first wins.
func (b *Builder) mapSnapshot(values map[string]string, users map[string][]core.UserRef) ([]core.FieldValue, error) {
	seen := map[string]struct{}{
		"ContentTypeId": {},
		"ContentType":   {},
	}

	var fields []core.FieldValue
	for _, def := range b.fields {
		fv, emit, err := b.mapper.Map(def, values[def.InternalName], users[def.InternalName])
		if err != nil {
			return nil, err
		}
		if !emit {
			continue
		}
		if _, dup := seen[fv.Name]; dup {
			if b.logger != nil {
				b.logger.Debug("dropping duplicate emitted field", "name", fv.Name, "source", def.InternalName)
			}
			continue
		}
		seen[fv.Name] = struct{}{}
		fields = append(fields, fv)
	}
	return fields, nil
}
