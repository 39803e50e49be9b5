package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/swiftgraph/internal/graph"
)

func sampleEntities() []*graph.Entity {
	player := graph.NewEntity("MediaPlayer", graph.KindClass)
	player.InheritedTypes = []string{"NSObject"}
	player.ConformedProtocols = []string{"Playable"}
	player.Properties = []graph.Property{
		{Name: "title", Type: "String"},
		{Name: "volume", Type: graph.UnknownType},
	}
	player.Methods = []graph.Method{{
		Name: "play",
		Parameters: []graph.Parameter{
			{InternalName: "track", Type: "Track"},
			{ExternalName: "at", InternalName: "position", Type: "Double"},
		},
		ReturnType: "Bool",
		Calls:      []string{"prepare", "schedule"},
	}}

	track := graph.NewEntity("Track", graph.KindStruct)
	track.Properties = []graph.Property{{Name: "duration", Type: "Double"}}

	return []*graph.Entity{player, track}
}

func TestEncodeGraph(t *testing.T) {
	data, err := EncodeGraph(sampleEntities())
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	player, ok := decoded["MediaPlayer"]
	require.True(t, ok, "top-level keys are entity names")
	assert.Equal(t, "class", player["kind"])
	assert.Equal(t, []any{"NSObject"}, player["inheritedTypes"])

	methods, ok := player["methods"].([]any)
	require.True(t, ok)
	require.Len(t, methods, 1)
	method := methods[0].(map[string]any)
	assert.Equal(t, "Bool", method["returnType"])

	params := method["parameters"].([]any)
	require.Len(t, params, 2)
	first := params[0].(map[string]any)
	_, hasExternal := first["externalName"]
	assert.False(t, hasExternal, "absent external name is omitted, not empty")
	second := params[1].(map[string]any)
	assert.Equal(t, "at", second["externalName"])

	track := decoded["Track"]
	assert.Equal(t, []any{}, track["methods"], "empty lists stay present as []")
	assert.Equal(t, []any{}, track["conformedProtocols"])
}

func TestEncodeGraph_OmitsEmptyReturnType(t *testing.T) {
	e := graph.NewEntity("C", graph.KindClass)
	e.Methods = []graph.Method{{Name: "stop", Parameters: []graph.Parameter{}, Calls: []string{}}}

	data, err := EncodeGraph([]*graph.Entity{e})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "returnType")
}

func TestEncodeGraph_Deterministic(t *testing.T) {
	entities := sampleEntities()
	reversed := []*graph.Entity{entities[1], entities[0]}

	a, err := EncodeGraph(entities)
	require.NoError(t, err)
	b, err := EncodeGraph(reversed)
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b), "output does not depend on input order")
}

func TestEncodeGraph_Empty(t *testing.T) {
	data, err := EncodeGraph(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestWriteGraph(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore(graph.PolicyOverwrite)
	for _, e := range sampleEntities() {
		require.NoError(t, store.AddEntity(ctx, e))
	}

	path := filepath.Join(t.TempDir(), DefaultOutputFile)
	require.NoError(t, WriteGraph(ctx, store, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "MediaPlayer")
	assert.Contains(t, decoded, "Track")
}
