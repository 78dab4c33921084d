package analyzer

import (
	"errors"
	"fmt"
)

// ErrUnknownTieBreak is returned by NewTieBreak for unrecognised names.
var ErrUnknownTieBreak = errors.New("unknown tie-break policy")

// TieBreak selects among clusters of equal maximum size.
type TieBreak int

const (
	// TieFirst keeps the cluster discovered first in raster-scan order.
	TieFirst TieBreak = iota
	// TieLast keeps the cluster discovered last in raster-scan order.
	TieLast
)

func (t TieBreak) String() string {
	if t == TieLast {
		return "last"
	}
	return "first"
}

// NewTieBreak creates a tie-break policy based on the specified name
func NewTieBreak(name string) (TieBreak, error) {
	switch name {
	case "first", "":
		return TieFirst, nil
	case "last":
		return TieLast, nil
	default:
		return TieFirst, fmt.Errorf("%w: %s", ErrUnknownTieBreak, name)
	}
}
