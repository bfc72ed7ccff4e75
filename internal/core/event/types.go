package event

import "github.com/l1jgo/factory/internal/core/ecs"

// BuildingSpawned is emitted after a successful spawn.
type BuildingSpawned struct {
	ID   ecs.ID
	Kind ecs.Kind
	X, Y int32
}

// BuildingDeleted is emitted when a building is flagged for removal.
// ID belongs to the generation in which Delete was called.
type BuildingDeleted struct {
	ID   ecs.ID
	Kind ecs.Kind
}

// ConnectRejected is emitted when Connect refuses a pair.
type ConnectRejected struct {
	Source ecs.ID
	Target ecs.ID
}

// GenerationCompacted reports a compaction pass that dropped entities.
type GenerationCompacted struct {
	Tick      uint64
	Buildings int
	Miners    int
	Factories int
	Belts     int
}

// TickCompleted closes every tick.
type TickCompleted struct {
	Tick      uint64
	Mined     int
	Started   int
	Produced  int
	Handoffs  int
	Buildings int
}
