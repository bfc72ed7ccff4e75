package world

import "github.com/l1jgo/factory/internal/core/ecs"

// Tuning holds the per-kind work thresholds and sizes.
type Tuning struct {
	MinerWorkPerItem   uint32
	FactoryWorkPerItem uint32
	BeltWorkPerItem    uint8
	FactoryOutput      Item
	MinerItemKinds     uint8 // miners emit 1..MinerItemKinds in rotation
	FactorySize        uint8 // 2 or 3
}

func DefaultTuning() Tuning {
	return Tuning{
		MinerWorkPerItem:   40,
		FactoryWorkPerItem: 120,
		BeltWorkPerItem:    10,
		FactoryOutput:      9,
		MinerItemKinds:     4,
		FactorySize:        2,
	}
}

// SizeOf returns the footprint of a building kind.
func (t Tuning) SizeOf(k ecs.Kind) Size {
	switch k {
	case ecs.KindMiner:
		return Size{W: 2, H: 1}
	case ecs.KindFactory:
		return Size{W: t.FactorySize, H: t.FactorySize}
	}
	return Size{W: 1, H: 1}
}
