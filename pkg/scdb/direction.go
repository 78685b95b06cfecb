package scdb

import (
	"errors"
	"fmt"
)

// Direction is the ideological direction of a vote or decision as coded in
// the Supreme Court Database: 1 is conservative, 2 is liberal.
type Direction uint8

const (
	Conservative Direction = 1
	Liberal      Direction = 2
)

var ErrUnknownDirection = errors.New("unknown direction code")

// ParseDirection interprets a raw direction code. Any code other than "1"
// and "2" is an error; unknown codes are never silently recoded.
func ParseDirection(code string) (Direction, error) {
	switch code {
	case "1":
		return Conservative, nil
	case "2":
		return Liberal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, code)
	}
}

// Binary maps the two direction codes onto {0, 1}: conservative is 0,
// liberal is 1.
func (d Direction) Binary() uint8 {
	if d == Conservative {
		return 0
	}
	return 1
}

// Code returns the raw database code for the direction.
func (d Direction) Code() uint8 {
	return uint8(d)
}

func (d Direction) String() string {
	switch d {
	case Conservative:
		return "conservative"
	case Liberal:
		return "liberal"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}
