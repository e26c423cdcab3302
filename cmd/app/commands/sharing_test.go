package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/passbox/internal/client"
)

func shareLink(t *testing.T, s *client.Session, id, receiver string) string {
	t.Helper()
	streams, out := newIO()
	require.NoError(t, RunShare(context.Background(), s, streams, id, receiver, "json"))

	var shared map[string]string
	decodeJSON(t, out, &shared)
	require.NotEmpty(t, shared["share_id"])
	require.NotEmpty(t, shared["expires_at"])
	require.True(t, strings.HasPrefix(shared["link"], "passbox://test/share/"), shared["link"])
	return shared["link"]
}

func TestSharingCommands(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "")
	alice := env.signup(t, "alice", "alice password")
	bob := env.signup(t, "bob", "bob password")
	carol := env.signup(t, "carol", "carol password")

	created, err := alice.Create(ctx, "credential", []string{"example.com", "alice", "p@ss"})
	require.NoError(t, err)
	id := created.KeyRecordID.String()

	t.Run("text output", func(t *testing.T) {
		streams, out := newIO()
		require.NoError(t, RunShare(ctx, alice, streams, id, "carol", "text"))
		assert.Contains(t, out.String(), "Shared with carol")
		assert.Contains(t, out.String(), "passbox://test/share/")
	})

	t.Run("show then accept", func(t *testing.T) {
		link := shareLink(t, alice, id, "bob")

		streams, out := newIO()
		require.NoError(t, RunShowShare(ctx, bob, streams, link, "text"))
		assert.Contains(t, out.String(), "example.com (credential)")

		streams, out = newIO()
		require.NoError(t, RunAcceptShare(ctx, bob, streams, link, "json"))
		var view entryView
		decodeJSON(t, out, &view)
		assert.Equal(t, "example.com", view.Name)
		assert.ElementsMatch(t, []string{"alice", "bob"}, view.Owners)
		assert.Equal(t, maskedValue, view.Fields[2].Value)

		streams, _ = newIO()
		assert.ErrorContains(t, RunAcceptShare(ctx, bob, streams, link, "text"), "failed to accept share")

		streams, out = newIO()
		require.NoError(t, RunRevoke(ctx, alice, streams, id, "bob"))
		assert.Contains(t, out.String(), "Revoked bob")

		streams, _ = newIO()
		assert.ErrorContains(t, RunGet(ctx, bob, streams, view.ID, false, "text"), "failed to read record")
	})

	t.Run("decline", func(t *testing.T) {
		link := shareLink(t, alice, id, "bob")

		streams, out := newIO()
		require.NoError(t, RunDeclineShare(ctx, bob, streams, link))
		assert.Contains(t, out.String(), "Share declined")

		streams, _ = newIO()
		assert.ErrorContains(t, RunShowShare(ctx, bob, streams, link, "text"), "failed to open share")
	})

	t.Run("wrong receiver", func(t *testing.T) {
		link := shareLink(t, alice, id, "bob")

		streams, _ := newIO()
		err := RunShowShare(ctx, carol, streams, link, "json")
		assert.ErrorIs(t, err, client.ErrNotReceiver)
	})

	t.Run("invalid input", func(t *testing.T) {
		streams, _ := newIO()
		assert.ErrorContains(t, RunShare(ctx, alice, streams, "nope", "bob", "text"), "invalid record id")
		assert.ErrorIs(t, RunShare(ctx, alice, streams, id, "  ", "text"), client.ErrInvalidReceiver)
		assert.ErrorIs(t, RunAcceptShare(ctx, bob, streams, "passbox://test/share/bad", "text"), client.ErrInvalidShareLink)
		assert.ErrorContains(t, RunRevoke(ctx, alice, streams, "nope", "bob"), "invalid record id")
	})
}
