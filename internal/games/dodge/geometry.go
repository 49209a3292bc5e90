// Package dodge implements a grid avoidance game.
// The player steps around a square board one cell at a time while enemies
// enter from the edges on a straight line through the player's position.
// Any overlap ends the round.
package dodge

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a round cannot be built from its configuration.
var ErrInvalidConfig = errors.New("dodge: invalid config")

// GridConfig describes the square playfield in pixels.
type GridConfig struct {
	CellCount int
	CellSize  int
	Extent    int // CellCount * CellSize
}

// NewGridConfig validates the dimensions and derives the extent.
func NewGridConfig(cellCount, cellSize int) (GridConfig, error) {
	if cellCount <= 0 {
		return GridConfig{}, fmt.Errorf("%w: cell count must be positive, got %d", ErrInvalidConfig, cellCount)
	}
	if cellSize <= 0 {
		return GridConfig{}, fmt.Errorf("%w: cell size must be positive, got %d", ErrInvalidConfig, cellSize)
	}
	return GridConfig{
		CellCount: cellCount,
		CellSize:  cellSize,
		Extent:    cellCount * cellSize,
	}, nil
}

// MaxCoord is the largest legal player coordinate on either axis.
func (g GridConfig) MaxCoord() int {
	return g.Extent - g.CellSize
}

// Center returns the player's starting cell, rounded toward the top-left.
func (g GridConfig) Center() Position {
	half := (g.CellCount / 2) * g.CellSize
	return Position{Top: half, Left: half}
}

// Position is a player location in pixels. Both fields are multiples of CellSize.
type Position struct {
	Top  int
	Left int
}

// Point returns the position as fractional coordinates.
func (p Position) Point() Point {
	return Point{Top: float64(p.Top), Left: float64(p.Left)}
}

// Point is a fractional pixel location used for enemies.
type Point struct {
	Top  float64
	Left float64
}

// Direction is one of the four grid directions.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the valid directions in spawn-roll order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Vector is a unit step (dTop, dLeft).
type Vector struct {
	DTop  int
	DLeft int
}

// Valid reports whether d is one of the four grid directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Vector returns the unit step for d. Invalid directions map to the zero vector.
func (d Direction) Vector() Vector {
	switch d {
	case DirUp:
		return Vector{DTop: -1}
	case DirDown:
		return Vector{DTop: 1}
	case DirLeft:
		return Vector{DLeft: -1}
	case DirRight:
		return Vector{DLeft: 1}
	default:
		return Vector{}
	}
}

// Vertical reports whether d moves along the top axis.
func (d Direction) Vertical() bool {
	return d == DirUp || d == DirDown
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// DirectionFromKeyCode decodes browser-style arrow key codes (37-40).
// Any other code is rejected so it never reaches movement logic.
func DirectionFromKeyCode(code int) (Direction, bool) {
	switch code {
	case 37:
		return DirLeft, true
	case 38:
		return DirUp, true
	case 39:
		return DirRight, true
	case 40:
		return DirDown, true
	default:
		return DirNone, false
	}
}
