// Package core defines the domain model and ports of the package generator:
// source schema and items, the built content graph, identities, lookups, and
// the Source port adapters implement.
package core

// FieldType is the declared type of a source field, as reported by the
// source schema. The set is closed: the engine dispatches exhaustively on it
// and refuses values outside this enumeration.
type FieldType string

const (
	FieldText          FieldType = "Text"
	FieldNote          FieldType = "Note"
	FieldChoice        FieldType = "Choice"
	FieldBoolean       FieldType = "Boolean"
	FieldNumber        FieldType = "Number"
	FieldCurrency      FieldType = "Currency"
	FieldDateTime      FieldType = "DateTime"
	FieldURL           FieldType = "URL"
	FieldUser          FieldType = "User"
	FieldMultiUser     FieldType = "MultiUser"
	FieldLookup        FieldType = "Lookup"
	FieldLookupMulti   FieldType = "LookupMulti"
	FieldCalculated    FieldType = "Calculated"
	FieldComputed      FieldType = "Computed"
	FieldTaxonomy      FieldType = "TaxonomyFieldType"
	FieldTaxonomyMulti FieldType = "TaxonomyFieldTypeMulti"
)

// Known reports whether t belongs to the closed field-type set.
func (t FieldType) Known() bool {
	switch t {
	case FieldText, FieldNote, FieldChoice, FieldBoolean, FieldNumber,
		FieldCurrency, FieldDateTime, FieldURL, FieldUser, FieldMultiUser,
		FieldLookup, FieldLookupMulti, FieldCalculated, FieldComputed,
		FieldTaxonomy, FieldTaxonomyMulti:
		return true
	}
	return false
}

// FieldDefinition describes one column of the source schema.
// It is read-only input to the engine.
type FieldDefinition struct {
	InternalName string
	Type         FieldType
	Hidden       bool
	ReadOnly     bool
}

// FieldValue is one emitted (name, encoded value) pair.
// Names are unique within a single item or version snapshot.
type FieldValue struct {
	Name  string
	Value string
}

// UserRef is a repository-native reference to a user or group, as it appears
// on items, versions and person fields before resolution.
type UserRef struct {
	ID            int
	Name          string // display name
	Login         string
	Email         string
	IsDomainGroup bool
}

// UserInfo is one row of the source's user-info catalog.
type UserInfo struct {
	ID          int
	Name        string
	Login       string
	Email       string
	IsSiteAdmin bool
	Deleted     bool
}

// UserProfile is a resolved profile record, keyed by email at the
// collaborator boundary. Present profiles carry no data the engine needs
// beyond their existence.
type UserProfile struct {
	Email string
}

// Identity is a package-local user/group record. Identities are deduplicated
// by source numeric id and live for the duration of one generation run.
// SystemID is empty until finalization assigns one (deleted identities get a
// freshly generated 32-hex-digit token).
type Identity struct {
	ID          int
	Name        string
	Login       string
	IsGroup     bool
	IsSiteAdmin bool
	IsDeleted   bool
	SystemID    string
}

// SourceItem is the raw shape of one list item as supplied by the source
// repository. Values holds the text form of simple fields by internal name;
// Users holds the references behind person fields, which have no useful text
// form before resolution.
type SourceItem struct {
	IntID         int
	Name          string // leaf name, e.g. "3_.000"
	URL           string // server-relative file reference
	ContentTypeID string
	Created       string // raw timestamp text, normalized by the builder
	Modified      string
	Version       string // version label, e.g. "4.0"
	Author        UserRef
	Editor        UserRef
	Values        map[string]string
	Users         map[string][]UserRef
}

// SourceVersion is one stored snapshot of a SourceItem. The source returns
// snapshots newest first, with the current one at index zero.
type SourceVersion struct {
	Label         string
	Modified      string
	ContentTypeID string
	Author        UserRef
	Editor        UserRef
	Values        map[string]string
	Users         map[string][]UserRef
}

// ContentItem is a package-native item node. It is immutable once built and
// owned by the builder until handed to the serializer.
type ContentItem struct {
	ID               string // generated per run
	DocID            string // generated per run
	IntID            int
	Name             string
	URL              string
	DirName          string
	Order            int
	Version          string
	ContentTypeID    string
	TimeCreated      string // canonical ISO-8601
	TimeLastModified string
	Author           int
	Editor           int
	Fields           []FieldValue
	Versions         []ItemVersion // historical snapshots, newest first
}

// ItemVersion is a historical snapshot of a ContentItem. Versions belong to
// exactly one item and never reference each other.
type ItemVersion struct {
	Label            string
	TimeLastModified string
	ContentTypeID    string
	Author           int
	Editor           int
	Fields           []FieldValue
}

// LookupItem is one member of a referenced lookup list.
type LookupItem struct {
	ID    int
	DocID string
	URL   string
}

// LookupList describes a list referenced by lookup fields.
type LookupList struct {
	ID    string
	URL   string
	Items []LookupItem
}

// LookupCatalog maps a lookup field's internal name to its referenced list.
// It is supplied precomputed by the caller and read-only during a run.
type LookupCatalog map[string]LookupList

// Target identifies where the package will be imported.
type Target struct {
	SiteURL      string
	ListName     string
	ListID       string
	WebID        string
	RootFolderID string
}

// ListURL returns the server-relative location of the target list.
func (t Target) ListURL() string {
	return t.SiteURL + "/Lists/" + t.ListName
}

// PackageFile is one named descriptor document of the deployment package.
type PackageFile struct {
	Name     string
	Contents []byte
}
