package core

import "context"

// Source defines the contract with the source content repository.
// Adhering to this interface keeps the engine independent of the transport
// talking to the repository (CSOM, REST, fixture files for tests).
//
// Calls are synchronous request/response. Implementations should fail fast
// and propagate errors unchanged; retry policy belongs to the adapter, never
// to the engine.
type Source interface {
	// ListItems returns the current state of every item in the named list.
	ListItems(ctx context.Context, listName string) ([]SourceItem, error)

	// Fields returns the field definitions of the named list.
	Fields(ctx context.Context, listName string) ([]FieldDefinition, error)

	// Versions returns the stored snapshots of an item, newest first.
	// The current snapshot is included at index zero.
	Versions(ctx context.Context, item SourceItem) ([]SourceVersion, error)

	// CurrentUser returns the principal running the migration.
	CurrentUser(ctx context.Context) (UserRef, error)

	// UserInfoList resolves the given references against the repository's
	// user-info catalog. Absent ids are simply missing from the result.
	UserInfoList(ctx context.Context, refs []UserRef) (map[int]UserInfo, error)

	// UserProfiles resolves profile records for the given references,
	// keyed by email. References without a profile are missing from the
	// result.
	UserProfiles(ctx context.Context, refs []UserRef) (map[string]UserProfile, error)
}
