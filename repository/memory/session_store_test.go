package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/woodline/shopterm/domain"
)

func TestCurrentTokenFreshness(t *testing.T) {
	issued := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := issued
	store := NewSessionStoreWithClock(func() time.Time { return now })

	store.Upsert("ivan", "tok-1")

	now = issued.Add(domain.TokenTTL - time.Second)
	token, ok := store.CurrentToken("ivan")
	require.True(t, ok)
	require.Equal(t, "tok-1", token)

	now = issued.Add(domain.TokenTTL + time.Second)
	_, ok = store.CurrentToken("ivan")
	require.False(t, ok)
}

func TestCurrentTokenUnknownUser(t *testing.T) {
	store := NewSessionStore()
	_, ok := store.CurrentToken("nobody")
	require.False(t, ok)
}

func TestUpsertIsIdempotentPerUsername(t *testing.T) {
	issued := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := issued
	store := NewSessionStoreWithClock(func() time.Time { return now })

	store.Upsert("ivan", "tok-1")
	store.SetWorkplace("ivan", "Пила-1")

	now = issued.Add(time.Hour)
	store.Upsert("ivan", "tok-2")

	require.Equal(t, 1, store.Len())

	sess, ok := store.Lookup("ivan")
	require.True(t, ok)
	require.Equal(t, "tok-2", sess.Token)
	require.Equal(t, now, sess.TokenIssuedAt)
	// workplace survives a token refresh
	require.Equal(t, "Пила-1", sess.Workplace)
}

func TestAllWithWorkplaceBuildsCrewInInsertionOrder(t *testing.T) {
	store := NewSessionStore()
	store.Upsert("a", "t1")
	store.Upsert("b", "t2")
	store.Upsert("c", "t3")
	store.SetWorkplace("a", "Saw")
	store.SetWorkplace("c", "Pack")

	crew := store.AllWithWorkplace()
	require.Equal(t, []domain.Employee{
		{Username: "a", Workplace: "Saw"},
		{Username: "c", Workplace: "Pack"},
	}, crew)
}

func TestFirstKeepsInsertionOrderAcrossRefresh(t *testing.T) {
	store := NewSessionStore()
	store.Upsert("first", "t1")
	store.Upsert("second", "t2")
	store.Upsert("first", "t1-refreshed")

	sess, ok := store.First()
	require.True(t, ok)
	require.Equal(t, "first", sess.Username)
	require.Equal(t, "t1-refreshed", sess.Token)
}

func TestRemoveDropsOnlyNamedSession(t *testing.T) {
	store := NewSessionStore()
	store.Upsert("a", "t1")
	store.Upsert("b", "t2")

	store.Remove("a")
	require.False(t, store.Contains("a"))
	require.True(t, store.Contains("b"))
	require.Equal(t, 1, store.Len())

	sess, ok := store.First()
	require.True(t, ok)
	require.Equal(t, "b", sess.Username)
}

func TestLookupReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	store.Upsert("a", "t1")

	sess, ok := store.Lookup("a")
	require.True(t, ok)
	sess.Workplace = "tampered"

	stored, _ := store.Lookup("a")
	require.Empty(t, stored.Workplace)
}
