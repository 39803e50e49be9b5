//go:build cgo

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKuzuStore(t *testing.T) *KuzuStore {
	t.Helper()
	store, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema(context.Background()))
	return store
}

func TestKuzuStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	in := NewEntity("MediaPlayer", KindClass)
	in.InheritedTypes = []string{"NSObject"}
	in.ConformedProtocols = []string{"Playable", "Codable"}
	in.Properties = []Property{
		{Name: "title", Type: "String"},
		{Name: "volume", Type: UnknownType},
	}
	in.Methods = []Method{
		{
			Name: "play",
			Parameters: []Parameter{
				{InternalName: "track", Type: "Track"},
				{ExternalName: "at", InternalName: "position", Type: "Double"},
			},
			ReturnType: "Bool",
			Calls:      []string{"prepare", "schedule", "decode"},
		},
		{Name: "stop", Parameters: []Parameter{}, Calls: []string{"fadeOut"}},
	}

	require.NoError(t, store.AddEntity(ctx, in))

	out, err := store.GetEntity(ctx, "MediaPlayer")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, out, "a stored entity reads back unchanged, member order included")
}

func TestKuzuStore_GetEntityMissing(t *testing.T) {
	store := newTestKuzuStore(t)
	got, err := store.GetEntity(context.Background(), "Ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKuzuStore_ListAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	for _, name := range []string{"Zebra", "Apple", "ApplePie"} {
		require.NoError(t, store.AddEntity(ctx, NewEntity(name, KindStruct)))
	}

	entities, err := store.ListEntities(ctx)
	require.NoError(t, err)
	require.Len(t, entities, 3)
	assert.Equal(t, "Apple", entities[0].Name)
	assert.Equal(t, "Zebra", entities[2].Name)

	results, err := store.QueryEntities(ctx, "Apple", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	results, err = store.QueryEntities(ctx, "Apple", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestKuzuStore_Stats(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	e := NewEntity("Player", KindClass)
	e.Properties = []Property{{Name: "name", Type: "String"}}
	e.Methods = []Method{{
		Name:       "play",
		Parameters: []Parameter{},
		Calls:      []string{"prepare", "start"},
	}}
	require.NoError(t, store.AddEntity(ctx, e))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EntityCount)
	assert.Equal(t, 1, stats.PropertyCount)
	assert.Equal(t, 1, stats.MethodCount)
	assert.Equal(t, 2, stats.CallCount)
}

func TestKuzuStore_CopyFrom(t *testing.T) {
	ctx := context.Background()

	mem := NewMemStore(PolicyOverwrite)
	a := NewEntity("A", KindClass)
	a.ConformedProtocols = []string{"Codable"}
	b := NewEntity("B", KindStruct)
	b.Methods = []Method{{Name: "run", Parameters: []Parameter{}, Calls: []string{"helper"}}}
	require.NoError(t, mem.AddEntity(ctx, a))
	require.NoError(t, mem.AddEntity(ctx, b))

	store := newTestKuzuStore(t)
	require.NoError(t, store.CopyFrom(ctx, mem))

	entities, err := store.ListEntities(ctx)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "A", entities[0].Name)
	assert.Equal(t, []string{"Codable"}, entities[0].ConformedProtocols)
	require.Len(t, entities[1].Methods, 1)
	assert.Equal(t, []string{"helper"}, entities[1].Methods[0].Calls)
}

func TestKuzuStore_SharedTypeRef(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	// Two entities referencing the same type name must share one TypeRef
	// node instead of tripping over the primary key.
	a := NewEntity("A", KindClass)
	a.ConformedProtocols = []string{"Codable"}
	b := NewEntity("B", KindStruct)
	b.ConformedProtocols = []string{"Codable"}
	require.NoError(t, store.AddEntity(ctx, a))
	require.NoError(t, store.AddEntity(ctx, b))

	got, err := store.GetEntity(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"Codable"}, got.ConformedProtocols)
}
