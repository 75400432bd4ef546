// Package fixture provides a file-backed Source for offline runs and tests.
// A single YAML document describes the source site: its lists, their schema,
// items with version history, the user catalog, and the lookup catalog.
package fixture

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sppack/sppack/pkg/core"
)

// Document is the on-disk shape of a fixture file.
type Document struct {
	SiteURL     string             `yaml:"site_url"`
	CurrentUser User               `yaml:"current_user"`
	Users       []User             `yaml:"users"`
	Profiles    []Profile          `yaml:"profiles"`
	Lists       map[string]List    `yaml:"lists"`
	Lookups     map[string]Catalog `yaml:"lookups"`
}

// User is a user catalog row. Items reference users by id.
type User struct {
	ID            int    `yaml:"id"`
	Name          string `yaml:"name"`
	Login         string `yaml:"login"`
	Email         string `yaml:"email"`
	IsSiteAdmin   bool   `yaml:"is_site_admin"`
	IsDomainGroup bool   `yaml:"is_domain_group"`
}

// Profile is a profile-store row, keyed by email.
type Profile struct {
	Email string `yaml:"email"`
}

// List holds one list's schema and content.
type List struct {
	Fields []Field `yaml:"fields"`
	Items  []Item  `yaml:"items"`
}

// Field is one column of a list's schema.
type Field struct {
	InternalName string `yaml:"internal_name"`
	Type         string `yaml:"type"`
	Hidden       bool   `yaml:"hidden"`
	ReadOnly     bool   `yaml:"read_only"`
}

// Item is one list item. Versions are listed newest first with the current
// snapshot at index zero; when omitted, the item has no stored history beyond
// its current state.
type Item struct {
	IntID         int              `yaml:"int_id"`
	Name          string           `yaml:"name"`
	URL           string           `yaml:"url"`
	ContentTypeID string           `yaml:"content_type_id"`
	Created       string           `yaml:"created"`
	Modified      string           `yaml:"modified"`
	Version       string           `yaml:"version"`
	Author        int              `yaml:"author"`
	Editor        int              `yaml:"editor"`
	Values        map[string]string `yaml:"values"`
	Users         map[string][]int  `yaml:"users"`
	Versions      []Version         `yaml:"versions"`
}

// Version is one stored snapshot of an item. A snapshot without its own
// content_type_id inherits the item's.
type Version struct {
	Label         string            `yaml:"label"`
	Modified      string            `yaml:"modified"`
	ContentTypeID string            `yaml:"content_type_id"`
	Author        int               `yaml:"author"`
	Editor        int               `yaml:"editor"`
	Values        map[string]string `yaml:"values"`
	Users         map[string][]int  `yaml:"users"`
}

// Catalog describes one referenced lookup list.
type Catalog struct {
	ID    string        `yaml:"id"`
	URL   string        `yaml:"url"`
	Items []CatalogItem `yaml:"items"`
}

// CatalogItem is one member of a referenced lookup list.
type CatalogItem struct {
	ID    int    `yaml:"id"`
	DocID string `yaml:"doc_id"`
	URL   string `yaml:"url"`
}

// Source serves a fixture document through the core.Source interface.
type Source struct {
	doc   Document
	users map[int]User
}

// Load reads and parses a fixture file.
func Load(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	return New(doc), nil
}

// New wraps an in-memory document.
func New(doc Document) *Source {
	users := make(map[int]User, len(doc.Users))
	for _, u := range doc.Users {
		users[u.ID] = u
	}
	return &Source{doc: doc, users: users}
}

// SiteURL returns the fixture's source site URL.
func (s *Source) SiteURL() string {
	return s.doc.SiteURL
}

// Users returns the fixture's user catalog in declaration order.
func (s *Source) Users() []User {
	return s.doc.Users
}

// Catalog converts the fixture's lookup section into the resolver's shape.
func (s *Source) Catalog() core.LookupCatalog {
	out := make(core.LookupCatalog, len(s.doc.Lookups))
	for field, cat := range s.doc.Lookups {
		list := core.LookupList{ID: cat.ID, URL: cat.URL}
		for _, item := range cat.Items {
			list.Items = append(list.Items, core.LookupItem{ID: item.ID, DocID: item.DocID, URL: item.URL})
		}
		out[field] = list
	}
	return out
}

func (s *Source) list(name string) (List, error) {
	list, ok := s.doc.Lists[name]
	if !ok {
		return List{}, fmt.Errorf("fixture: list %q not found", name)
	}
	return list, nil
}

// Fields implements core.Source.
func (s *Source) Fields(ctx context.Context, listName string) ([]core.FieldDefinition, error) {
	list, err := s.list(listName)
	if err != nil {
		return nil, err
	}
	defs := make([]core.FieldDefinition, 0, len(list.Fields))
	for _, f := range list.Fields {
		defs = append(defs, core.FieldDefinition{
			InternalName: f.InternalName,
			Type:         core.FieldType(f.Type),
			Hidden:       f.Hidden,
			ReadOnly:     f.ReadOnly,
		})
	}
	return defs, nil
}

// ListItems implements core.Source.
func (s *Source) ListItems(ctx context.Context, listName string) ([]core.SourceItem, error) {
	list, err := s.list(listName)
	if err != nil {
		return nil, err
	}
	items := make([]core.SourceItem, 0, len(list.Items))
	for _, it := range list.Items {
		items = append(items, core.SourceItem{
			IntID:         it.IntID,
			Name:          it.Name,
			URL:           it.URL,
			ContentTypeID: it.ContentTypeID,
			Created:       it.Created,
			Modified:      it.Modified,
			Version:       it.Version,
			Author:        s.ref(it.Author),
			Editor:        s.ref(it.Editor),
			Values:        it.Values,
			Users:         s.refs(it.Users),
		})
	}
	return items, nil
}

// Versions implements core.Source. The fixture lists snapshots newest first
// with the current one leading; an item without a versions section has a
// single-snapshot history synthesized from its current state.
func (s *Source) Versions(ctx context.Context, item core.SourceItem) ([]core.SourceVersion, error) {
	list, err := s.list(itemList(s.doc, item.IntID))
	if err != nil {
		return nil, err
	}
	for _, it := range list.Items {
		if it.IntID != item.IntID {
			continue
		}
		if len(it.Versions) == 0 {
			return []core.SourceVersion{{
				Label:         it.Version,
				Modified:      it.Modified,
				ContentTypeID: it.ContentTypeID,
				Author:        s.ref(it.Author),
				Editor:        s.ref(it.Editor),
				Values:        it.Values,
				Users:         s.refs(it.Users),
			}}, nil
		}
		out := make([]core.SourceVersion, 0, len(it.Versions))
		for _, v := range it.Versions {
			contentType := v.ContentTypeID
			if contentType == "" {
				contentType = it.ContentTypeID
			}
			out = append(out, core.SourceVersion{
				Label:         v.Label,
				Modified:      v.Modified,
				ContentTypeID: contentType,
				Author:        s.ref(v.Author),
				Editor:        s.ref(v.Editor),
				Values:        v.Values,
				Users:         s.refs(v.Users),
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("fixture: item %d not found", item.IntID)
}

// CurrentUser implements core.Source.
func (s *Source) CurrentUser(ctx context.Context) (core.UserRef, error) {
	if s.doc.CurrentUser.ID == 0 {
		return core.UserRef{}, fmt.Errorf("fixture: no current_user configured")
	}
	u := s.doc.CurrentUser
	return core.UserRef{ID: u.ID, Name: u.Name, Login: u.Login, Email: u.Email, IsDomainGroup: u.IsDomainGroup}, nil
}

// UserInfoList implements core.Source. Referenced users missing from the
// catalog are simply absent from the result, which is how deletions surface.
func (s *Source) UserInfoList(ctx context.Context, refs []core.UserRef) (map[int]core.UserInfo, error) {
	out := make(map[int]core.UserInfo)
	for _, ref := range refs {
		if u, ok := s.users[ref.ID]; ok {
			out[u.ID] = core.UserInfo{
				ID:          u.ID,
				Name:        u.Name,
				Login:       u.Login,
				Email:       u.Email,
				IsSiteAdmin: u.IsSiteAdmin,
			}
		}
	}
	return out, nil
}

// UserProfiles implements core.Source.
func (s *Source) UserProfiles(ctx context.Context, refs []core.UserRef) (map[string]core.UserProfile, error) {
	out := make(map[string]core.UserProfile, len(s.doc.Profiles))
	for _, p := range s.doc.Profiles {
		out[p.Email] = core.UserProfile{Email: p.Email}
	}
	return out, nil
}

func (s *Source) ref(id int) core.UserRef {
	if id == 0 {
		return core.UserRef{}
	}
	if u, ok := s.users[id]; ok {
		return core.UserRef{ID: u.ID, Name: u.Name, Login: u.Login, Email: u.Email, IsDomainGroup: u.IsDomainGroup}
	}
	return core.UserRef{ID: id}
}

func (s *Source) refs(in map[string][]int) map[string][]core.UserRef {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]core.UserRef, len(in))
	for field, ids := range in {
		refs := make([]core.UserRef, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, s.ref(id))
		}
		out[field] = refs
	}
	return out
}

// itemList finds which list holds the item. Fixtures are small, so the scan
// is fine.
func itemList(doc Document, intID int) string {
	for name, list := range doc.Lists {
		for _, it := range list.Items {
			if it.IntID == intID {
				return name
			}
		}
	}
	return ""
}

var _ core.Source = (*Source)(nil)
