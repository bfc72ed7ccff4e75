package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/factory/internal/core/ecs"
	"github.com/l1jgo/factory/internal/world"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BuildingEntry places one named building.
type BuildingEntry struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // miner, factory, belt
	X    int32  `yaml:"x"`
	Y    int32  `yaml:"y"`
}

// LinkEntry connects the output of From to To, by name.
type LinkEntry struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Layout is a starting world loaded from YAML.
type Layout struct {
	Buildings []BuildingEntry `yaml:"buildings"`
	Links     []LinkEntry     `yaml:"links"`
}

// Builder is the part of the simulation a layout is applied to.
type Builder interface {
	Spawn(k ecs.Kind, pos world.Coord) ecs.ID
	Connect(source, target ecs.ID) bool
}

// LoadLayout loads a layout from a YAML file.
func LoadLayout(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	l, err := ParseLayout(raw)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return l, nil
}

// ParseLayout decodes and validates layout YAML.
func ParseLayout(raw []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(l.Buildings))
	for i, b := range l.Buildings {
		if b.Name == "" {
			return nil, fmt.Errorf("building %d: missing name", i)
		}
		if _, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("building %q: duplicate name", b.Name)
		}
		seen[b.Name] = struct{}{}
		if _, ok := ecs.ParseKind(b.Kind); !ok {
			return nil, fmt.Errorf("building %q: unknown kind %q", b.Name, b.Kind)
		}
	}
	for i, ln := range l.Links {
		if _, ok := seen[ln.From]; !ok {
			return nil, fmt.Errorf("link %d: unknown building %q", i, ln.From)
		}
		if _, ok := seen[ln.To]; !ok {
			return nil, fmt.Errorf("link %d: unknown building %q", i, ln.To)
		}
	}
	return &l, nil
}

// Apply spawns every building and makes every link in file order. It
// stops at the first building that cannot be placed. Links that do not
// share an edge are logged and skipped, matching Connect.
// Returns the spawned ids by name.
func (l *Layout) Apply(b Builder, log *zap.Logger) (map[string]ecs.ID, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ids := make(map[string]ecs.ID, len(l.Buildings))
	for _, entry := range l.Buildings {
		k, _ := ecs.ParseKind(entry.Kind)
		id := b.Spawn(k, world.Coord{X: entry.X, Y: entry.Y})
		if id == 0 {
			return ids, fmt.Errorf("spawn %s %q at %d,%d: no room", entry.Kind, entry.Name, entry.X, entry.Y)
		}
		ids[entry.Name] = id
	}
	for _, ln := range l.Links {
		if !b.Connect(ids[ln.From], ids[ln.To]) {
			log.Warn("layout link skipped", zap.String("from", ln.From), zap.String("to", ln.To))
		}
	}
	return ids, nil
}

// Count returns the number of buildings in the layout.
func (l *Layout) Count() int {
	return len(l.Buildings)
}
