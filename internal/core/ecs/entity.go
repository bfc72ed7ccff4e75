package ecs

import "fmt"

// ID is a dense index into one column. Index 0 is the permanent sentinel
// slot of every column, so the zero ID doubles as "none".
// IDs are only meaningful inside the generation that produced them.
type ID uint32

func (id ID) IsZero() bool { return id == 0 }

// Kind tags which payload column an entity lives in.
type Kind uint8

const (
	KindMiner Kind = iota
	KindFactory
	KindBelt
)

// KindCount is the number of payload columns.
const KindCount = 3

func (k Kind) String() string {
	switch k {
	case KindMiner:
		return "miner"
	case KindFactory:
		return "factory"
	case KindBelt:
		return "belt"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a lower-case kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "miner":
		return KindMiner, true
	case "factory":
		return KindFactory, true
	case "belt":
		return KindBelt, true
	}
	return 0, false
}

// Ref addresses a payload by kind and column index.
// A zero Index means the reference points nowhere.
type Ref struct {
	Kind  Kind
	Index ID
}

func (r Ref) IsZero() bool { return r.Index == 0 }
