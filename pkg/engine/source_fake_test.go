package engine

import (
	"context"
	"fmt"

	"github.com/sppack/sppack/pkg/core"
)

// fakeSource is an in-memory core.Source for engine tests. All maps are
// populated up front and only read during a run, so it is safe for the
// worker pool.
type fakeSource struct {
	fields   []core.FieldDefinition
	items    []core.SourceItem
	versions map[int][]core.SourceVersion
	current  core.UserRef
	info     map[int]core.UserInfo
	profiles map[string]core.UserProfile
	failList error
}

func (f *fakeSource) ListItems(ctx context.Context, listName string) ([]core.SourceItem, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	return f.items, nil
}

func (f *fakeSource) Fields(ctx context.Context, listName string) ([]core.FieldDefinition, error) {
	return f.fields, nil
}

func (f *fakeSource) Versions(ctx context.Context, item core.SourceItem) ([]core.SourceVersion, error) {
	return f.versions[item.IntID], nil
}

func (f *fakeSource) CurrentUser(ctx context.Context) (core.UserRef, error) {
	if f.current.ID == 0 {
		return core.UserRef{}, fmt.Errorf("no current user configured")
	}
	return f.current, nil
}

func (f *fakeSource) UserInfoList(ctx context.Context, refs []core.UserRef) (map[int]core.UserInfo, error) {
	out := make(map[int]core.UserInfo)
	for _, ref := range refs {
		if row, ok := f.info[ref.ID]; ok {
			out[ref.ID] = row
		}
	}
	return out, nil
}

func (f *fakeSource) UserProfiles(ctx context.Context, refs []core.UserRef) (map[string]core.UserProfile, error) {
	return f.profiles, nil
}

var _ core.Source = (*fakeSource)(nil)

func simpleFields() []core.FieldDefinition {
	return []core.FieldDefinition{
		{InternalName: "Title", Type: core.FieldText},
		{InternalName: "Priority", Type: core.FieldText},
		{InternalName: "Comments", Type: core.FieldNote},
		{InternalName: "DueDate", Type: core.FieldDateTime},
		{InternalName: "Attachments", Type: core.FieldBoolean},
		{InternalName: "_ComplianceFlags", Type: core.FieldText},
	}
}

func testTarget() core.Target {
	return core.Target{
		SiteURL:      "https://contoso.sharepoint.com/sites/target",
		ListName:     "Tasks",
		ListID:       "0c5e1df3-a8f8-4b75-9a3f-6f7d2b1e0c11",
		WebID:        "d4a1b9e2-5a34-4f21-8d6e-9c0b3a7f5e22",
		RootFolderID: "77e2c9b4-0d15-4a8c-b1f3-2e6d8a9c4f33",
	}
}

func newTestSource() *fakeSource {
	ada := core.UserRef{ID: 12, Name: "Ada Lovelace", Login: "contoso\\ada", Email: "ada@contoso.com"}
	grace := core.UserRef{ID: 14, Name: "Grace Hopper", Login: "contoso\\grace", Email: "grace@contoso.com"}

	return &fakeSource{
		fields: simpleFields(),
		items: []core.SourceItem{
			{
				IntID:         3,
				Name:          "3_.000",
				URL:           "/sites/source/Lists/Tasks/3_.000",
				ContentTypeID: "0x0108009F9A",
				Created:       "2018-11-26T09:00:00",
				Modified:      "2018-11-28T11:29:06",
				Version:       "1.0",
				Author:        ada,
				Editor:        grace,
				Values: map[string]string{
					"Title":            "Ship the package",
					"Priority":         "High",
					"Comments":         "First pass",
					"DueDate":          "2018-12-01T00:00:00",
					"_ComplianceFlags": "should-never-appear",
				},
			},
		},
		current: core.UserRef{ID: 99, Name: "Migration Principal", Login: "contoso\\migrator", Email: "migrator@contoso.com"},
		info: map[int]core.UserInfo{
			12: {ID: 12, Name: "Ada Lovelace", Login: "contoso\\ada", Email: "ada@contoso.com"},
			14: {ID: 14, Name: "Grace Hopper", Login: "contoso\\grace", Email: "grace@contoso.com", IsSiteAdmin: true},
			99: {ID: 99, Name: "Migration Principal", Login: "contoso\\migrator", Email: "migrator@contoso.com"},
		},
		profiles: map[string]core.UserProfile{
			"ada@contoso.com":      {Email: "ada@contoso.com"},
			"grace@contoso.com":    {Email: "grace@contoso.com"},
			"migrator@contoso.com": {Email: "migrator@contoso.com"},
		},
	}
}
