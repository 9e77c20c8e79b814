package workspace

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierCollection_Order(t *testing.T) {
	var c IdentifierCollection
	require.NoError(t, json.Unmarshal([]byte(`{
		"z": {"main_identifier": "", "identifiers": {}},
		"a": {"main_identifier": "isbn", "identifiers": {"isbn": "1"}},
		"m": {"main_identifier": "", "identifiers": {}}
	}`), &c))

	assert.Equal(t, []string{"z", "a", "m"}, c.Keys())

	t.Run("rename keeps position", func(t *testing.T) {
		assert.True(t, c.Rename("a", "b"))
		assert.Equal(t, []string{"z", "b", "m"}, c.Keys())
		assert.False(t, c.Has("a"))
		assert.False(t, c.Rename("missing", "x"))
		assert.False(t, c.Rename("z", "m"))
	})

	t.Run("reorder", func(t *testing.T) {
		absent, unlisted := c.Reorder([]string{"m", "ghost", "z"})
		assert.Equal(t, []string{"m", "z", "b"}, c.Keys())
		assert.Equal(t, []string{"ghost"}, absent)
		assert.Equal(t, []string{"b"}, unlisted)
	})

	t.Run("marshal keeps order", func(t *testing.T) {
		data, err := json.Marshal(&c)
		require.NoError(t, err)
		assert.Equal(t, `{"m":{"main_identifier":"","identifiers":{}},"z":{"main_identifier":"","identifiers":{}},"b":{"main_identifier":"isbn","identifiers":{"isbn":"1"}}}`, string(data))
	})
}

func TestIdentifierCollection_RenameAll(t *testing.T) {
	c := NewIdentifierCollection()
	c.Set("a", IdentifierRecord{MainIdentifier: "doi", Identifiers: map[string]string{"doi": "1"}})
	c.Set("b", IdentifierRecord{MainIdentifier: "doi", Identifiers: map[string]string{"doi": "2"}})
	c.Set("c", IdentifierRecord{})

	c.RenameAll(map[string]string{"a": "b", "b": "a", "ghost": "x"})

	assert.Equal(t, []string{"b", "a", "c"}, c.Keys())
	rec, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, "1", rec.Identifiers["doi"])
	assert.Equal(t, 3, c.Len())
}

func TestIdentifierCollection_UnmarshalRejectsArrays(t *testing.T) {
	var c IdentifierCollection
	assert.Error(t, json.Unmarshal([]byte(`[]`), &c))
}

func TestIdentifierRecord_Main(t *testing.T) {
	tests := []struct {
		name   string
		record IdentifierRecord
		want   string
		ok     bool
	}{
		{"present", IdentifierRecord{MainIdentifier: "doi", Identifiers: map[string]string{"doi": "d"}}, "d", true},
		{"empty main", IdentifierRecord{Identifiers: map[string]string{"doi": "d"}}, "", false},
		{"dangling main", IdentifierRecord{MainIdentifier: "isbn", Identifiers: map[string]string{"doi": "d"}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.record.Main()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(ErrBackup, "/ws/staging", cause)

	assert.True(t, errors.Is(err, ErrBackup))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "backup failed: /ws/staging: boom", err.Error())
	assert.Equal(t, ErrBackup, KindOf(err))
	assert.Nil(t, KindOf(cause))

	assert.Equal(t, "not found: /x", NewError(ErrNotFound, "/x", nil).Error())
}

func TestIdentifierRecord_ExtraMembers(t *testing.T) {
	var c IdentifierCollection
	require.NoError(t, json.Unmarshal([]byte(`{
		"k": {"note": "checked", "main_identifier": "doi", "identifiers": {"doi": "10.1/x"}, "meta": {"added": 2021}},
		"plain": {"main_identifier": "", "identifiers": {}}
	}`), &c))

	rec, ok := c.Get("k")
	require.True(t, ok)
	v, ok := rec.Main()
	assert.True(t, ok)
	assert.Equal(t, "10.1/x", v)
	assert.Len(t, rec.Extra, 2)

	plain, _ := c.Get("plain")
	assert.Nil(t, plain.Extra)

	data, err := json.Marshal(&c)
	require.NoError(t, err)
	assert.Equal(t, `{"k":{"main_identifier":"doi","identifiers":{"doi":"10.1/x"},"meta":{"added":2021},"note":"checked"},"plain":{"main_identifier":"","identifiers":{}}}`, string(data))
}
