package engine

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sppack/sppack/pkg/core"
)

// systemAccountName is the well-known principal the source uses for
// system-originated edits. It is always carried with this fixed login.
const (
	systemAccountName  = "System Account"
	systemAccountLogin = `SHAREPOINT\system`
)

// IdentityStore memoizes package-local identities keyed by source numeric id.
// Resolve is safe for concurrent use: many items may reference the same user
// from different workers and must converge onto one record.
type IdentityStore struct {
	mu   sync.Mutex
	byID map[int]*core.Identity
}

// NewIdentityStore creates an empty identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{byID: make(map[int]*core.Identity)}
}

// Resolve returns the identity for the given source reference, creating it on
// first sight. Later resolutions for the same id return the existing record
// unchanged, whatever reference data they carry.
func (s *IdentityStore) Resolve(ref core.UserRef) *core.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byID[ref.ID]; ok {
		return id
	}
	id := &core.Identity{
		ID:      ref.ID,
		Name:    ref.Name,
		Login:   ref.Login,
		IsGroup: ref.IsDomainGroup,
	}
	s.byID[ref.ID] = id
	return id
}

// Len returns the number of distinct identities resolved so far.
func (s *IdentityStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Refs returns one reference per resolved identity, for the collaborator
// calls that finalize the store.
func (s *IdentityStore) Refs() []core.UserRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := make([]core.UserRef, 0, len(s.byID))
	for _, id := range s.byID {
		refs = append(refs, core.UserRef{
			ID:            id.ID,
			Name:          id.Name,
			Login:         id.Login,
			IsDomainGroup: id.IsGroup,
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs
}

// Finalize reconciles every resolved identity against the user-info catalog
// and the profile set:
//
//   - the System Account maps to a fixed non-deleted record with the
//     SHAREPOINT\system login and no system id;
//   - identities absent from the catalog are marked deleted and assigned a
//     fresh opaque system id;
//   - identities present in the catalog but lacking a profile are likewise
//     marked deleted with a fresh system id;
//   - fully resolved identities take name, login and the admin/deleted flags
//     from the catalog row and keep an empty system id.
func (s *IdentityStore) Finalize(info map[int]core.UserInfo, profiles map[string]core.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byID {
		if id.Name == systemAccountName {
			id.Login = systemAccountLogin
			id.IsGroup = false
			id.IsSiteAdmin = false
			id.IsDeleted = false
			id.SystemID = ""
			continue
		}

		row, ok := info[id.ID]
		if !ok {
			id.IsDeleted = true
			id.SystemID = newSystemID()
			continue
		}

		id.Name = row.Name
		id.Login = row.Login
		if _, hasProfile := profiles[row.Email]; !hasProfile || row.Email == "" {
			id.IsSiteAdmin = false
			id.IsDeleted = true
			id.SystemID = newSystemID()
			continue
		}

		id.IsSiteAdmin = row.IsSiteAdmin
		id.IsDeleted = row.Deleted
		id.SystemID = ""
	}
}

// Identities returns a snapshot of all resolved identities sorted by id.
// Sorting keeps UserGroupMap output deterministic regardless of which worker
// resolved a user first.
func (s *IdentityStore) Identities() []core.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Identity, 0, len(s.byID))
	for _, id := range s.byID {
		out = append(out, *id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// newSystemID generates the opaque token assigned to deleted identities:
// a random uuid with the dashes stripped, 32 hex digits.
func newSystemID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
