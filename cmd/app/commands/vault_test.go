package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultCommands(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "")
	s := env.signup(t, "alice", "alice password")

	streams, out := newIO()
	require.NoError(t, RunAdd(ctx, s, streams, "Credential", []string{"example.com", "alice", "p@ss"}, "json"))
	var added map[string]string
	decodeJSON(t, out, &added)
	id := added["id"]
	require.NotEmpty(t, id)
	require.NotEmpty(t, added["document_id"])

	t.Run("duplicate credential", func(t *testing.T) {
		streams, _ := newIO()
		err := RunAdd(ctx, s, streams, "credential", []string{"EXAMPLE.com", "alice", "other"}, "text")
		assert.ErrorContains(t, err, "already exists")
	})

	t.Run("interactive add", func(t *testing.T) {
		streams, out := newIO("Groceries", "milk, eggs")
		require.NoError(t, RunAdd(ctx, s, streams, "note", nil, "text"))
		assert.Contains(t, out.String(), "title: ")
		assert.Contains(t, out.String(), "Added note Groceries")
	})

	t.Run("get masks secrets", func(t *testing.T) {
		streams, out := newIO()
		require.NoError(t, RunGet(ctx, s, streams, id, false, "text"))
		assert.Contains(t, out.String(), "example.com")
		assert.Contains(t, out.String(), "username: alice")
		assert.Contains(t, out.String(), "password: "+maskedValue)
		assert.NotContains(t, out.String(), "p@ss")

		streams, out = newIO()
		require.NoError(t, RunGet(ctx, s, streams, id, true, "json"))
		var view entryView
		decodeJSON(t, out, &view)
		assert.Equal(t, "credential", view.Kind)
		assert.Equal(t, "example.com", view.Name)
		assert.Equal(t, []string{"alice"}, view.Owners)
		require.Len(t, view.Fields, 3)
		assert.Equal(t, fieldView{Name: "password", Value: "p@ss"}, view.Fields[2])
	})

	t.Run("list", func(t *testing.T) {
		streams, out := newIO()
		require.NoError(t, RunList(ctx, s, streams, false, "text"))
		assert.Contains(t, out.String(), "ID")
		assert.Contains(t, out.String(), "example.com")
		assert.Contains(t, out.String(), "Groceries")

		streams, out = newIO()
		require.NoError(t, RunList(ctx, s, streams, false, "json"))
		var views []entryView
		decodeJSON(t, out, &views)
		assert.Len(t, views, 2)
	})

	t.Run("update with fields", func(t *testing.T) {
		streams, out := newIO()
		require.NoError(t, RunUpdate(ctx, s, streams, id, []string{"example.com", "alice", "n3w"}))
		assert.Contains(t, out.String(), "Updated record")

		entry, err := s.Read(ctx, mustParseID(t, id))
		require.NoError(t, err)
		assert.Equal(t, []string{"example.com", "alice", "n3w"}, entry.Values())
	})

	t.Run("interactive update keeps empty answers", func(t *testing.T) {
		streams, _ := newIO("", "alice2", "")
		require.NoError(t, RunUpdate(ctx, s, streams, id, nil))

		entry, err := s.Read(ctx, mustParseID(t, id))
		require.NoError(t, err)
		assert.Equal(t, []string{"example.com", "alice2", "n3w"}, entry.Values())
	})

	t.Run("find", func(t *testing.T) {
		streams, out := newIO()
		require.NoError(t, RunFind(ctx, s, streams, "Example.com", "alice2", true, "text"))
		assert.Contains(t, out.String(), "password: n3w")

		streams, out = newIO()
		require.NoError(t, RunFind(ctx, s, streams, "example.com", "nobody", false, "json"))
		var result map[string]any
		decodeJSON(t, out, &result)
		assert.Equal(t, false, result["found"])
		assert.NotContains(t, result, "entry")

		streams, out = newIO()
		require.NoError(t, RunFind(ctx, s, streams, "example.org", "alice2", false, "text"))
		assert.Contains(t, out.String(), "No credential for alice2 at example.org")
	})

	t.Run("delete", func(t *testing.T) {
		streams, out := newIO()
		require.NoError(t, RunDelete(ctx, s, streams, id))
		assert.Contains(t, out.String(), "Deleted record")

		streams, _ = newIO()
		assert.ErrorContains(t, RunGet(ctx, s, streams, id, false, "text"), "failed to read record")
	})
}

func TestVaultCommands_InvalidInput(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "")
	s := env.signup(t, "alice", "alice password")

	streams, _ := newIO()
	assert.ErrorContains(t, RunAdd(ctx, s, streams, "wifi", []string{"x"}, "text"), "invalid kind")
	assert.ErrorContains(t, RunAdd(ctx, s, streams, "note", []string{"only title"}, "text"), "failed to add note")
	assert.ErrorContains(t, RunGet(ctx, s, streams, "not-a-uuid", false, "text"), "invalid record id")
	assert.ErrorContains(t, RunDelete(ctx, s, streams, "not-a-uuid"), "invalid record id")
	assert.ErrorContains(t, RunUpdate(ctx, s, streams, "not-a-uuid", []string{"a", "b"}), "invalid record id")

	streams, out := newIO()
	require.NoError(t, RunList(ctx, s, streams, false, "text"))
	assert.Contains(t, out.String(), "Vault is empty")
}
