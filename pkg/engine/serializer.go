package engine

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sppack/sppack/pkg/core"
)

// Descriptor file names. The seven together form one deployment package.
const (
	FileExportSettings = "ExportSettings.xml"
	FileLookupListMap  = "LookupListMap.xml"
	FileManifest       = "Manifest.xml"
	FileRequirements   = "Requirements.xml"
	FileRootObjectMap  = "RootObjectMap.xml"
	FileSystemData     = "SystemData.xml"
	FileUserGroupMap   = "UserGroup.xml"
)

const xmlHeader = "<?xml version=\"1.0\" encoding=\"utf-8\"?>\r\n"

// Serializer renders the completed object graph and the auxiliary resolved
// data into the package's descriptor documents. All seven are produced
// eagerly in one pass; a failure leaves no partial package behind.
type Serializer struct {
	sourceSiteURL string
	target        core.Target
	lookups       *LookupResolver
	logger        *slog.Logger
}

// NewSerializer creates a serializer for one source/target pair.
func NewSerializer(sourceSiteURL string, target core.Target, lookups *LookupResolver, logger *slog.Logger) *Serializer {
	return &Serializer{
		sourceSiteURL: sourceSiteURL,
		target:        target,
		lookups:       lookups,
		logger:        logger,
	}
}

// Serialize produces the seven descriptor files. Output is deterministic for
// a given graph and identity set except for the identifiers generated fresh
// each run (item ids, deleted-identity system ids).
func (s *Serializer) Serialize(items []core.ContentItem, identities []core.Identity, fields []core.FieldDefinition) ([]core.PackageFile, error) {
	lookupListMap, err := s.lookupListMap(fields)
	if err != nil {
		return nil, err
	}
	manifest, err := s.manifest(items)
	if err != nil {
		return nil, err
	}

	files := []core.PackageFile{
		s.exportSettings(),
		lookupListMap,
		manifest,
		s.requirements(),
		s.rootObjectMap(),
		s.systemData(),
		s.userGroupMap(identities),
	}

	if s.logger != nil {
		total := 0
		for _, f := range files {
			total += len(f.Contents)
		}
		s.logger.Debug("serialized package", "files", len(files), "bytes", total)
	}
	return files, nil
}

func (s *Serializer) exportSettings() core.PackageFile {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b,
		`<ExportSettings SiteUrl="%s" IncludeSecurity="All" SourceType="SharePoint" xmlns="urn:deployment-exportsettings-schema" />`,
		attrEscape(s.sourceSiteURL))
	return core.PackageFile{Name: FileExportSettings, Contents: []byte(b.String())}
}

// lookupListMap emits one entry per non-hidden, non-read-only lookup field's
// referenced list. A lookup field without a catalog entry makes the whole
// package unbuildable.
func (s *Serializer) lookupListMap(fields []core.FieldDefinition) (core.PackageFile, error) {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<LookupLists xmlns="urn:deployment-lookuplistmap-schema">`)

	for _, def := range fields {
		if def.Hidden || def.ReadOnly {
			continue
		}
		if def.Type != core.FieldLookup && def.Type != core.FieldLookupMulti {
			continue
		}
		list, ok := s.lookups.List(def.InternalName)
		if !ok {
			return core.PackageFile{}, &core.ResolutionError{
				Field:  def.InternalName,
				Reason: "no entry in lookup catalog",
			}
		}
		fmt.Fprintf(&b, `<LookupList Id="%s" Url="%s" Included="false">`,
			attrEscape(list.ID), attrEscape(list.URL))
		b.WriteString("<LookupItems>")
		for _, item := range list.Items {
			fmt.Fprintf(&b, `<LookupItem Id="%d" DocId="%s" Url="%s" Included="false" />`,
				item.ID, attrEscape(item.DocID), attrEscape(item.URL))
		}
		b.WriteString("</LookupItems></LookupList>")
	}

	b.WriteString("</LookupLists>")
	return core.PackageFile{Name: FileLookupListMap, Contents: []byte(b.String())}, nil
}

func (s *Serializer) requirements() core.PackageFile {
	return core.PackageFile{
		Name:     FileRequirements,
		Contents: []byte(xmlHeader + `<Requirements xmlns="urn:deployment-requirements-schema" />`),
	}
}

func (s *Serializer) rootObjectMap() core.PackageFile {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<RootObjects xmlns="urn:deployment-rootobjectmap-schema">`)
	fmt.Fprintf(&b, `<RootObject Id="%s" Type="List" ParentId="%s" WebUrl="%s" Url="%s" IsDependency="false" />`,
		attrEscape(s.target.ListID), attrEscape(s.target.WebID),
		attrEscape(s.target.SiteURL), attrEscape(s.target.ListURL()))
	b.WriteString("</RootObjects>")
	return core.PackageFile{Name: FileRootObjectMap, Contents: []byte(b.String())}
}

// systemData carries fixed schema/version metadata expected by the import
// engine; nothing in it is per-run.
func (s *Serializer) systemData() core.PackageFile {
	const body = `<SystemData xmlns="urn:deployment-systemdata-schema">` +
		`<SchemaVersion Version="15.0.0.0" Build="16.0.3111.1200" DatabaseVersion="11552" SiteVersion="15" ObjectsProcessed="97" />` +
		`<ManifestFiles><ManifestFile Name="Manifest.xml" /></ManifestFiles>` +
		`<SystemObjects></SystemObjects>` +
		`<RootWebOnlyLists />` +
		`</SystemData>`
	return core.PackageFile{Name: FileSystemData, Contents: []byte(xmlHeader + body)}
}

// userGroupMap renders every resolved identity. The groups section is always
// empty: domain groups travel as user records flagged IsDomainGroup.
func (s *Serializer) userGroupMap(identities []core.Identity) core.PackageFile {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<UserGroupMap xmlns="urn:deployment-usergroupmap-schema">`)
	b.WriteString("<Users>")
	for _, id := range identities {
		fmt.Fprintf(&b, `<User Id="%d" Name="%s" Login="%s" IsDomainGroup="%s" IsSiteAdmin="%s" IsDeleted="%s" SystemId="%s" Flags="0" />`,
			id.ID, attrEscape(id.Name), attrEscape(id.Login),
			xmlBool(id.IsGroup), xmlBool(id.IsSiteAdmin), xmlBool(id.IsDeleted),
			id.SystemID)
	}
	b.WriteString("</Users>")
	b.WriteString("<Groups />")
	b.WriteString("</UserGroupMap>")
	return core.PackageFile{Name: FileUserGroupMap, Contents: []byte(b.String())}
}

// Manifest element tree. The import engine consumes the graph as SPObject
// wrappers around list-item nodes, with version snapshots nested under the
// item they belong to.
type spObjects struct {
	XMLName xml.Name   `xml:"SPObjects"`
	Xmlns   string     `xml:"xmlns,attr"`
	Objects []spObject `xml:"SPObject"`
}

type spObject struct {
	ID           string     `xml:"Id,attr"`
	ObjectType   string     `xml:"ObjectType,attr"`
	ParentID     string     `xml:"ParentId,attr"`
	ParentWebID  string     `xml:"ParentWebId,attr"`
	ParentWebURL string     `xml:"ParentWebUrl,attr"`
	URL          string     `xml:"Url,attr"`
	ListItem     spListItem `xml:"ListItem"`
}

type spListItem struct {
	ID               string      `xml:"Id,attr"`
	FileURL          string      `xml:"FileUrl,attr,omitempty"`
	DocType          string      `xml:"DocType,attr,omitempty"`
	DocID            string      `xml:"DocId,attr,omitempty"`
	Name             string      `xml:"Name,attr"`
	DirName          string      `xml:"DirName,attr"`
	ParentWebID      string      `xml:"ParentWebId,attr"`
	ParentFolderID   string      `xml:"ParentFolderId,attr,omitempty"`
	ParentListID     string      `xml:"ParentListId,attr"`
	IntID            int         `xml:"IntId,attr"`
	Version          string      `xml:"Version,attr"`
	ContentTypeID    string      `xml:"ContentTypeId,attr"`
	Author           int         `xml:"Author,attr"`
	ModifiedBy       int         `xml:"ModifiedBy,attr"`
	TimeCreated      string      `xml:"TimeCreated,attr,omitempty"`
	TimeLastModified string      `xml:"TimeLastModified,attr"`
	Order            int         `xml:"Order,attr,omitempty"`
	ModerationStatus string      `xml:"ModerationStatus,attr"`
	Fields           spFields    `xml:"Fields"`
	Versions         *spVersions `xml:"Versions,omitempty"`
}

type spFields struct {
	Field []spField `xml:"Field"`
}

type spField struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
}

type spVersions struct {
	ListItem []spListItem `xml:"ListItem"`
}

func (s *Serializer) manifest(items []core.ContentItem) (core.PackageFile, error) {
	root := spObjects{
		Xmlns:   "urn:deployment-manifest-schema",
		Objects: make([]spObject, 0, len(items)),
	}
	for _, item := range items {
		root.Objects = append(root.Objects, s.manifestObject(item))
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return core.PackageFile{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return core.PackageFile{}, fmt.Errorf("encode manifest: %w", err)
	}
	return core.PackageFile{Name: FileManifest, Contents: buf.Bytes()}, nil
}

func (s *Serializer) manifestObject(item core.ContentItem) spObject {
	node := spListItem{
		ID:               item.ID,
		FileURL:          "Lists/" + s.target.ListName + "/" + item.Name,
		DocType:          "File",
		DocID:            item.DocID,
		Name:             item.Name,
		DirName:          item.DirName,
		ParentWebID:      s.target.WebID,
		ParentFolderID:   s.target.RootFolderID,
		ParentListID:     s.target.ListID,
		IntID:            item.IntID,
		Version:          item.Version,
		ContentTypeID:    item.ContentTypeID,
		Author:           item.Author,
		ModifiedBy:       item.Editor,
		TimeCreated:      item.TimeCreated,
		TimeLastModified: item.TimeLastModified,
		Order:            item.Order,
		ModerationStatus: "Approved",
		Fields:           spFields{Field: manifestFields(item.Fields)},
	}

	if len(item.Versions) > 0 {
		vs := &spVersions{ListItem: make([]spListItem, 0, len(item.Versions))}
		for _, v := range item.Versions {
			vs.ListItem = append(vs.ListItem, spListItem{
				ID:               item.ID,
				Name:             item.Name,
				DirName:          item.DirName,
				ParentWebID:      s.target.WebID,
				ParentListID:     s.target.ListID,
				IntID:            item.IntID,
				Version:          v.Label,
				ContentTypeID:    v.ContentTypeID,
				Author:           v.Author,
				ModifiedBy:       v.Editor,
				TimeCreated:      item.TimeCreated,
				TimeLastModified: v.TimeLastModified,
				ModerationStatus: "Approved",
				Fields:           spFields{Field: manifestFields(v.Fields)},
			})
		}
		node.Versions = vs
	}

	return spObject{
		ID:           item.ID,
		ObjectType:   "SPListItem",
		ParentID:     s.target.ListID,
		ParentWebID:  s.target.WebID,
		ParentWebURL: s.target.SiteURL,
		URL:          item.URL,
		ListItem:     node,
	}
}

func manifestFields(fields []core.FieldValue) []spField {
	out := make([]spField, 0, len(fields))
	for _, f := range fields {
		out = append(out, spField{Name: f.Name, Value: f.Value})
	}
	return out
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func attrEscape(s string) string {
	return attrEscaper.Replace(s)
}

func xmlBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
