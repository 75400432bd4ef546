package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sppack/sppack/pkg/core"
)

const sampleFixture = `
site_url: https://contoso.sharepoint.com/sites/source
current_user:
  id: 99
  name: Migration Principal
  login: contoso\migrator
  email: migrator@contoso.com
users:
  - id: 12
    name: Ada Lovelace
    login: contoso\ada
    email: ada@contoso.com
  - id: 14
    name: Grace Hopper
    login: contoso\grace
    email: grace@contoso.com
    is_site_admin: true
profiles:
  - email: ada@contoso.com
  - email: grace@contoso.com
lists:
  Tasks:
    fields:
      - internal_name: Title
        type: Text
      - internal_name: Owner
        type: User
      - internal_name: Client
        type: Lookup
      - internal_name: Secret
        type: Text
        hidden: true
    items:
      - int_id: 3
        name: 3_.000
        url: /sites/source/Lists/Tasks/3_.000
        content_type_id: "0x0108009F9A"
        created: 2018-11-26T09:00:00
        modified: 2018-11-28T11:29:06
        version: "2.0"
        author: 12
        editor: 14
        values:
          Title: Ship the package
          Client: "2;#Beta Corp"
        users:
          Owner: [12]
        versions:
          - label: "2.0"
            modified: 2018-11-28T11:29:06
            author: 12
            editor: 14
            values:
              Title: Ship the package
          - label: "1.0"
            modified: 2018-11-26T09:00:00
            content_type_id: "0x0100OLD"
            author: 12
            editor: 12
            values:
              Title: Draft
      - int_id: 5
        name: 5_.000
        url: /sites/source/Lists/Tasks/5_.000
        content_type_id: "0x0108009F9A"
        created: 2018-11-27T10:00:00
        modified: 2018-11-27T10:00:00
        version: "1.0"
        author: 14
        editor: 14
        values:
          Title: Second task
lookups:
  Client:
    id: 8f9c2a4e-1111-2222-3333-444455556666
    url: /sites/source/Lists/Clients
    items:
      - id: 2
        doc_id: doc-bbb
        url: /sites/source/Lists/Clients/2_.000
`

func loadSample(t *testing.T) *Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixture), 0644))
	src, err := Load(path)
	require.NoError(t, err)
	return src
}

func TestLoad(t *testing.T) {
	src := loadSample(t)

	assert.Equal(t, "https://contoso.sharepoint.com/sites/source", src.SiteURL())

	current, err := src.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 99, current.ID)
	assert.Equal(t, `contoso\migrator`, current.Login)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSource_Fields(t *testing.T) {
	src := loadSample(t)

	defs, err := src.Fields(context.Background(), "Tasks")
	require.NoError(t, err)
	require.Len(t, defs, 4)
	assert.Equal(t, core.FieldText, defs[0].Type)
	assert.Equal(t, core.FieldUser, defs[1].Type)
	assert.Equal(t, core.FieldLookup, defs[2].Type)
	assert.True(t, defs[3].Hidden)
}

func TestSource_ListItems(t *testing.T) {
	src := loadSample(t)

	items, err := src.ListItems(context.Background(), "Tasks")
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, 3, first.IntID)
	assert.Equal(t, "Ship the package", first.Values["Title"])

	// Author and editor ids resolve against the user catalog.
	assert.Equal(t, "Ada Lovelace", first.Author.Name)
	assert.Equal(t, "Grace Hopper", first.Editor.Name)

	// Person-field references carry the full user record.
	owners := first.Users["Owner"]
	require.Len(t, owners, 1)
	assert.Equal(t, "contoso\\ada", owners[0].Login)
}

func TestSource_ListItems_UnknownList(t *testing.T) {
	src := loadSample(t)

	_, err := src.ListItems(context.Background(), "Announcements")
	assert.ErrorContains(t, err, "Announcements")
}

func TestSource_Versions(t *testing.T) {
	src := loadSample(t)
	ctx := context.Background()

	items, err := src.ListItems(ctx, "Tasks")
	require.NoError(t, err)

	// Explicit history, newest first, current snapshot leading.
	stored, err := src.Versions(ctx, items[0])
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "2.0", stored[0].Label)
	assert.Equal(t, "1.0", stored[1].Label)
	assert.Equal(t, "Draft", stored[1].Values["Title"])

	// Per-snapshot content type, inherited from the item when not declared.
	assert.Equal(t, "0x0108009F9A", stored[0].ContentTypeID)
	assert.Equal(t, "0x0100OLD", stored[1].ContentTypeID)

	// No versions section: a single snapshot synthesized from the item.
	stored, err = src.Versions(ctx, items[1])
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "1.0", stored[0].Label)
	assert.Equal(t, "Second task", stored[0].Values["Title"])
}

func TestSource_UserInfoList(t *testing.T) {
	src := loadSample(t)

	info, err := src.UserInfoList(context.Background(), []core.UserRef{{ID: 12}, {ID: 14}, {ID: 777}})
	require.NoError(t, err)
	require.Len(t, info, 2)
	assert.True(t, info[14].IsSiteAdmin)
	// Unknown refs stay absent so the identity rules can mark them deleted.
	_, ok := info[777]
	assert.False(t, ok)
}

func TestSource_Catalog(t *testing.T) {
	src := loadSample(t)

	catalog := src.Catalog()
	list, ok := catalog["Client"]
	require.True(t, ok)
	assert.Equal(t, "8f9c2a4e-1111-2222-3333-444455556666", list.ID)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "doc-bbb", list.Items[0].DocID)
}
