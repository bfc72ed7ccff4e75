package data_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/factory/internal/core/ecs"
	"github.com/l1jgo/factory/internal/data"
	"github.com/l1jgo/factory/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const lineYAML = `
buildings:
  - { name: miner,   kind: miner,   x: 1, y: 1 }
  - { name: belt,    kind: belt,    x: 3, y: 1 }
  - { name: factory, kind: factory, x: 4, y: 1 }
  - { name: stray,   kind: belt,    x: 9, y: 9 }
links:
  - { from: miner, to: belt }
  - { from: belt,  to: factory }
  - { from: belt,  to: stray }
`

func TestParseAndApply(t *testing.T) {
	l, err := data.ParseLayout([]byte(lineYAML))
	require.NoError(t, err)
	assert.Equal(t, 4, l.Count())
	require.Len(t, l.Links, 3)

	s := world.NewState(world.DefaultOptions(), zaptest.NewLogger(t))
	ids, err := l.Apply(s, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, ids, 4)

	assert.Equal(t, ids["miner"], s.Lookup(world.Coord{X: 2, Y: 1}))
	assert.Equal(t, ecs.KindFactory, s.Building(ids["factory"]).Kind)

	out, _ := s.Output(ids["belt"])
	assert.Equal(t, ecs.KindFactory, out.Kind, "the non-adjacent link is skipped")
	out, _ = s.Output(ids["miner"])
	assert.Equal(t, ecs.KindBelt, out.Kind)
}

func TestApplyStopsOnBlockedSpawn(t *testing.T) {
	l, err := data.ParseLayout([]byte(`
buildings:
  - { name: a, kind: factory, x: 0, y: 0 }
  - { name: b, kind: belt,    x: 1, y: 1 }
`))
	require.NoError(t, err)

	s := world.NewState(world.DefaultOptions(), zaptest.NewLogger(t))
	ids, err := l.Apply(s, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
	assert.Len(t, ids, 1)
}

func TestParseLayoutErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
		want string
	}{
		{"unknown kind", "buildings:\n  - { name: x, kind: silo }\n", "unknown kind"},
		{"missing name", "buildings:\n  - { kind: belt }\n", "missing name"},
		{"duplicate", "buildings:\n  - { name: x, kind: belt }\n  - { name: x, kind: belt, x: 1 }\n", "duplicate"},
		{"dangling link", "buildings:\n  - { name: x, kind: belt }\nlinks:\n  - { from: x, to: y }\n", `unknown building "y"`},
		{"bad yaml", "buildings: [", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := data.ParseLayout([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(lineYAML), 0o644))

	l, err := data.LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, "stray", l.Buildings[3].Name)

	_, err = data.LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShippedLayoutApplies(t *testing.T) {
	l, err := data.LoadLayout(filepath.Join("..", "..", "data", "yaml", "layout.yaml"))
	require.NoError(t, err)

	s := world.NewState(world.DefaultOptions(), zaptest.NewLogger(t))
	ids, err := l.Apply(s, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Len(t, ids, l.Count())
	for _, ln := range l.Links {
		out, ok := s.Output(ids[ln.From])
		require.True(t, ok)
		assert.False(t, out.IsZero(), "%s -> %s", ln.From, ln.To)
	}
}
