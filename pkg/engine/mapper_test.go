package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sppack/sppack/pkg/core"
)

func newTestMapper(renameOn bool) *FieldMapper {
	return NewFieldMapper(
		DefaultRenameTable(),
		renameOn,
		DefaultExclusions(),
		NewIdentityStore(),
		NewLookupResolver(testCatalog()),
	)
}

func TestFieldMapper_RenameRoundTrip(t *testing.T) {
	def := core.FieldDefinition{InternalName: "Priority", Type: core.FieldText}

	fv, emit, err := newTestMapper(true).Map(def, "High", nil)
	require.NoError(t, err)
	require.True(t, emit)
	assert.Equal(t, "PriorityST", fv.Name)
	assert.Equal(t, "High", fv.Value)

	fv, emit, err = newTestMapper(false).Map(def, "High", nil)
	require.NoError(t, err)
	require.True(t, emit)
	assert.Equal(t, "Priority", fv.Name)
}

func TestFieldMapper_UnmappedPairPassesThrough(t *testing.T) {
	// Priority#Note is not in the table even though Priority#Text is.
	def := core.FieldDefinition{InternalName: "Priority", Type: core.FieldNote}

	fv, emit, err := newTestMapper(true).Map(def, "text", nil)
	require.NoError(t, err)
	require.True(t, emit)
	assert.Equal(t, "Priority", fv.Name)
}

func TestFieldMapper_Exclusions(t *testing.T) {
	defs := []core.FieldDefinition{
		{InternalName: "Secret", Type: core.FieldText, Hidden: true},
		{InternalName: "Locked", Type: core.FieldText, ReadOnly: true},
		{InternalName: "LinkTitle", Type: core.FieldComputed},
		{InternalName: "Attachments", Type: core.FieldBoolean},
		{InternalName: "ContentType", Type: core.FieldText},
		{InternalName: "ID", Type: core.FieldNumber},
		{InternalName: "_ComplianceTag", Type: core.FieldText},
		{InternalName: "_ComplianceTagWrittenTime", Type: core.FieldDateTime},
		{InternalName: "Predecessors", Type: core.FieldLookupMulti},
	}

	m := newTestMapper(false)
	for _, def := range defs {
		_, emit, err := m.Map(def, "whatever", nil)
		require.NoError(t, err, def.InternalName)
		assert.False(t, emit, "field %s must never be emitted", def.InternalName)
	}
}

func TestFieldMapper_ExtraExclusionPatterns(t *testing.T) {
	rules := DefaultExclusions().Extend([]string{"Legacy*"})
	m := NewFieldMapper(DefaultRenameTable(), false, rules, NewIdentityStore(), NewLookupResolver(nil))

	_, emit, err := m.Map(core.FieldDefinition{InternalName: "LegacyCode", Type: core.FieldText}, "x", nil)
	require.NoError(t, err)
	assert.False(t, emit)

	_, emit, err = m.Map(core.FieldDefinition{InternalName: "Title", Type: core.FieldText}, "x", nil)
	require.NoError(t, err)
	assert.True(t, emit)
}

func TestFieldMapper_UserEncoding(t *testing.T) {
	m := newTestMapper(false)
	def := core.FieldDefinition{InternalName: "Owner", Type: core.FieldUser}

	fv, emit, err := m.Map(def, "", []core.UserRef{{ID: 42, Name: "Ada"}})
	require.NoError(t, err)
	require.True(t, emit)
	assert.Equal(t, "42", fv.Value)

	// Absent value encodes as empty string, never as an error.
	fv, emit, err = m.Map(def, "", nil)
	require.NoError(t, err)
	require.True(t, emit)
	assert.Equal(t, "", fv.Value)
}

func TestFieldMapper_MultiUserEncoding(t *testing.T) {
	m := newTestMapper(false)
	def := core.FieldDefinition{InternalName: "Reviewers", Type: core.FieldMultiUser}

	fv, emit, err := m.Map(def, "", []core.UserRef{{ID: 42}, {ID: 7}, {ID: 42}})
	require.NoError(t, err)
	require.True(t, emit)
	assert.Equal(t, "42;#7;#42", fv.Value)
}

func TestFieldMapper_LookupEncoding(t *testing.T) {
	m := newTestMapper(false)

	fv, emit, err := m.Map(core.FieldDefinition{InternalName: "Client", Type: core.FieldLookup}, "2;#Beta", nil)
	require.NoError(t, err)
	require.True(t, emit)
	assert.Equal(t, "doc-bbb", fv.Value)

	fv, emit, err = m.Map(core.FieldDefinition{InternalName: "Client", Type: core.FieldLookupMulti}, "1;#Alpha;#5;#Gamma", nil)
	require.NoError(t, err)
	require.True(t, emit)
	assert.Equal(t, "doc-aaa;#doc-ccc", fv.Value)
}

func TestFieldMapper_TaxonomyIsStubbed(t *testing.T) {
	m := newTestMapper(false)

	_, emit, err := m.Map(core.FieldDefinition{InternalName: "Tags", Type: core.FieldTaxonomyMulti}, "raw", nil)
	require.NoError(t, err)
	assert.False(t, emit)
}

func TestFieldMapper_UnknownTypeRejected(t *testing.T) {
	m := newTestMapper(false)

	_, _, err := m.Map(core.FieldDefinition{InternalName: "Weird", Type: core.FieldType("Geolocation")}, "x", nil)
	assert.ErrorIs(t, err, core.ErrUnknownFieldType)
}
