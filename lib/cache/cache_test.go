package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	store, err := NewMemory(10)
	require.NoError(t, err)

	_, ok := store.Get("missing")
	require.False(t, ok)

	store.Set("k", []byte("v"), time.Minute)
	payload, ok := store.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("v"), payload)
}

func TestMemoryExpiry(t *testing.T) {
	store, err := NewMemory(10)
	require.NoError(t, err)

	store.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := store.Get("k")
	require.False(t, ok)
}

func TestMemoryZeroTTLNotStored(t *testing.T) {
	store, err := NewMemory(10)
	require.NoError(t, err)

	store.Set("k", []byte("v"), 0)
	_, ok := store.Get("k")
	require.False(t, ok)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	store, err := NewMemory(2)
	require.NoError(t, err)

	store.Set("a", []byte("1"), time.Minute)
	store.Set("b", []byte("2"), time.Minute)
	store.Set("c", []byte("3"), time.Minute)

	_, ok := store.Get("a")
	require.False(t, ok)
	_, ok = store.Get("c")
	require.True(t, ok)
}

func TestJSONRoundTrip(t *testing.T) {
	store, err := NewMemory(10)
	require.NoError(t, err)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	SetJSON(store, "k", payload{Name: "studio", Count: 3}, time.Minute)
	got, ok := GetJSON[payload](store, "k")
	require.True(t, ok)
	require.Equal(t, "studio", got.Name)
	require.Equal(t, 3, got.Count)

	_, ok = GetJSON[payload](store, "missing")
	require.False(t, ok)
}

func TestJSONUndecodablePayloadIsMiss(t *testing.T) {
	store, err := NewMemory(10)
	require.NoError(t, err)

	store.Set("k", []byte("not json"), time.Minute)
	_, ok := GetJSON[map[string]string](store, "k")
	require.False(t, ok)
}
