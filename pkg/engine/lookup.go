package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sppack/sppack/pkg/core"
)

// multiValueSep delimits multi-valued encodings (lookups and person fields),
// matching the source repository's own wire convention.
const multiValueSep = ";#"

// LookupResolver translates cross-item reference values into the document
// identifiers of the referenced list's members. The catalog is read-only for
// the duration of a run, so the resolver needs no synchronization.
type LookupResolver struct {
	catalog core.LookupCatalog
}

// NewLookupResolver creates a resolver over the supplied catalog.
func NewLookupResolver(catalog core.LookupCatalog) *LookupResolver {
	return &LookupResolver{catalog: catalog}
}

// Resolve maps a raw lookup value to the referenced members' document ids.
// Single-valued mode emits one identifier; multi-valued mode a delimited
// sequence preserving source order. A field without a catalog entry, or a
// referenced id absent from the list's members, is a ResolutionError.
func (r *LookupResolver) Resolve(field, raw string, multi bool) (string, error) {
	list, ok := r.catalog[field]
	if !ok {
		return "", &core.ResolutionError{Field: field, Reason: "no entry in lookup catalog"}
	}

	ids, err := parseLookupIDs(raw)
	if err != nil {
		return "", &core.ResolutionError{Field: field, Reason: err.Error()}
	}
	if !multi && len(ids) > 1 {
		ids = ids[:1]
	}

	docIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		docID, ok := memberDocID(list, id)
		if !ok {
			return "", &core.ResolutionError{
				Field:  field,
				Reason: fmt.Sprintf("item %d not found in list %s", id, list.ID),
			}
		}
		docIDs = append(docIDs, docID)
	}
	return strings.Join(docIDs, multiValueSep), nil
}

// List returns the catalog entry for a field, for serialization of the
// lookup-list map.
func (r *LookupResolver) List(field string) (core.LookupList, bool) {
	list, ok := r.catalog[field]
	return list, ok
}

func memberDocID(list core.LookupList, id int) (string, bool) {
	for _, item := range list.Items {
		if item.ID == id {
			return item.DocID, true
		}
	}
	return "", false
}

// parseLookupIDs extracts the referenced item ids from a raw lookup value.
// The source encodes references as "id;#title" pairs, multi-valued fields as
// "id;#title;#id;#title". A bare "id" (no title) is also accepted.
func parseLookupIDs(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty lookup value")
	}

	parts := strings.Split(raw, multiValueSep)
	var ids []int
	for i := 0; i < len(parts); i += 2 {
		id, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return nil, fmt.Errorf("malformed lookup value %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
