package engine

import (
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sppack/sppack/pkg/core"
)

// RenameTable maps "internalName#Type" keys to the field name expected by
// the target schema. The default table is hand-maintained configuration
// data for a specific target schema version; it must be carried verbatim to
// stay compatible with that schema.
type RenameTable map[string]string

func renameKey(name string, t core.FieldType) string {
	return name + "#" + string(t)
}

// DefaultRenameTable returns the static (name, type) → target-name mapping.
func DefaultRenameTable() RenameTable {
	return RenameTable{
		"Priority#Text":        "PriorityST",
		"FirstName#Text":       "FirstNameST",
		"Name#Text":            "NameST",
		"UserName#Text":        "UserNameST",
		"Department#Text":      "DepartmentST",
		"Comments#Note":        "CommentsMT",
		"Description#Note":     "DescriptionMT",
		"Notes#Note":           "NotesMT",
		"Address#Note":         "AddressMT",
		"Content#Note":         "ContentMT",
		"IsActive#Choice":      "IsActiveCH",
		"TaskType#Choice":      "TaskTypeCH",
		"ContentType#Choice":   "ContentTypeCH",
		"Category#Choice":      "CategoryCH",
		"Name#Choice":          "NameCH",
		"Location#Choice":      "LocationCH",
		"Role#Choice":          "RoleCH",
		"Active#Choice":        "IsActiveCH",
		"Active#Boolean":       "IsActiveCH",
		"IsActive#Boolean":     "IsActiveCH",
		"TimeZone#Number":      "TimeZoneNM",
		"AverageRating#Number": "AverageRatingNM",
		"DueDate#DateTime":     "DueDateDT",
		"EndDate#DateTime":     "EndDateDT",
		"UserName#User":        "UserNameToPG",
		"FullName#Calculated":  "FullNameCC",
	}
}

// ExclusionRules decides which source fields never appear in emitted field
// sets. Beyond the hidden/read-only/computed checks, a fixed set of internal
// names is excluded: bookkeeping columns the import engine either rejects or
// derives itself. Patterns use doublestar glob syntax so whole families
// (compliance metadata) can be named at once.
type ExclusionRules struct {
	names    map[string]struct{}
	patterns []string
}

// DefaultExclusions returns the fixed exclusion set: attachment markers,
// content-type linkage, item bookkeeping, app principals, predecessor links
// and the compliance/audit family.
func DefaultExclusions() ExclusionRules {
	return NewExclusions([]string{
		"Attachments",
		"ContentType",
		"ContentTypeId",
		"ID",
		"_UIVersionString",
		"ItemChildCount",
		"FolderChildCount",
		"ComplianceAssetId",
		"_Compliance*",
		"AppAuthor",
		"AppEditor",
		"Predecessors",
	})
}

// NewExclusions builds exclusion rules from a mix of exact names and glob
// patterns. Entries containing glob metacharacters are matched as patterns,
// everything else by exact name.
func NewExclusions(entries []string) ExclusionRules {
	rules := ExclusionRules{names: make(map[string]struct{})}
	for _, e := range entries {
		if strings.ContainsAny(e, "*?[{") {
			rules.patterns = append(rules.patterns, e)
			continue
		}
		rules.names[e] = struct{}{}
	}
	return rules
}

// Extend returns a copy of the rules with extra entries added.
func (r ExclusionRules) Extend(entries []string) ExclusionRules {
	merged := make([]string, 0, len(r.names)+len(r.patterns)+len(entries))
	for name := range r.names {
		merged = append(merged, name)
	}
	merged = append(merged, r.patterns...)
	merged = append(merged, entries...)
	return NewExclusions(merged)
}

// Excluded reports whether the field must be dropped from emission.
func (r ExclusionRules) Excluded(def core.FieldDefinition) bool {
	if def.Hidden || def.ReadOnly || def.Type == core.FieldComputed {
		return true
	}
	if _, ok := r.names[def.InternalName]; ok {
		return true
	}
	for _, p := range r.patterns {
		if ok, err := doublestar.Match(p, def.InternalName); err == nil && ok {
			return true
		}
	}
	return false
}

// FieldMapper turns a raw source field into its package-native FieldValue:
// it applies the rename table (when enabled) and encodes the value according
// to the field's declared type. The table and rules are immutable after
// construction; resolvers are shared with the rest of the engine.
type FieldMapper struct {
	renames    RenameTable
	renameOn   bool
	exclusions ExclusionRules
	identities *IdentityStore
	lookups    *LookupResolver
}

// NewFieldMapper wires a mapper from its collaborators. renameOn mirrors the
// "schema differs between source and target" configuration flag.
func NewFieldMapper(renames RenameTable, renameOn bool, exclusions ExclusionRules, ids *IdentityStore, lookups *LookupResolver) *FieldMapper {
	return &FieldMapper{
		renames:    renames,
		renameOn:   renameOn,
		exclusions: exclusions,
		identities: ids,
		lookups:    lookups,
	}
}

// Name returns the emitted name for a field definition: the rename-table
// translation when the flag is on and a mapping exists, otherwise the
// internal name unchanged.
func (m *FieldMapper) Name(def core.FieldDefinition) string {
	if m.renameOn {
		if mapped, ok := m.renames[renameKey(def.InternalName, def.Type)]; ok {
			return mapped
		}
	}
	return def.InternalName
}

// Map encodes one field of a snapshot. The boolean result reports whether
// the field is emitted at all: excluded fields and the (deliberately
// unencoded) taxonomy variants yield false.
//
// Absent simple values encode as the empty string, never as an error.
func (m *FieldMapper) Map(def core.FieldDefinition, raw string, users []core.UserRef) (core.FieldValue, bool, error) {
	if m.exclusions.Excluded(def) {
		return core.FieldValue{}, false, nil
	}

	fv := core.FieldValue{Name: m.Name(def)}
	switch def.Type {
	case core.FieldUser:
		if len(users) == 0 {
			fv.Value = ""
			break
		}
		fv.Value = strconv.Itoa(m.identities.Resolve(users[0]).ID)

	case core.FieldMultiUser:
		ids := make([]string, 0, len(users))
		for _, ref := range users {
			ids = append(ids, strconv.Itoa(m.identities.Resolve(ref).ID))
		}
		fv.Value = strings.Join(ids, multiValueSep)

	case core.FieldLookup:
		if raw == "" {
			fv.Value = ""
			break
		}
		v, err := m.lookups.Resolve(def.InternalName, raw, false)
		if err != nil {
			return core.FieldValue{}, false, err
		}
		fv.Value = v

	case core.FieldLookupMulti:
		if raw == "" {
			fv.Value = ""
			break
		}
		v, err := m.lookups.Resolve(def.InternalName, raw, true)
		if err != nil {
			return core.FieldValue{}, false, err
		}
		fv.Value = v

	case core.FieldTaxonomy, core.FieldTaxonomyMulti:
		// Hierarchical tag fields have no defined package encoding yet.
		return core.FieldValue{}, false, nil

	case core.FieldText, core.FieldNote, core.FieldChoice, core.FieldBoolean,
		core.FieldNumber, core.FieldCurrency, core.FieldDateTime, core.FieldURL,
		core.FieldCalculated, core.FieldComputed:
		fv.Value = raw

	default:
		return core.FieldValue{}, false, core.ErrUnknownFieldType
	}

	return fv, true, nil
}
