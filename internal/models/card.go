// Package models defines the persisted aggregates shared across the
// Battlecards services: cards, games, and users.
package models

import "fmt"

// CardType is the rock-paper-scissors family of a card.
type CardType string

const (
	TypeRock     CardType = "rock"
	TypePaper    CardType = "paper"
	TypeScissors CardType = "scissors"
)

// CardTypes lists every valid card type in catalog order.
var CardTypes = [3]CardType{TypeRock, TypePaper, TypeScissors}

// Power bounds for any card in the catalog.
const (
	MinPower = 1
	MaxPower = 13
)

// Valid reports whether t is one of the three known card types.
func (t CardType) Valid() bool {
	switch t {
	case TypeRock, TypePaper, TypeScissors:
		return true
	}
	return false
}

// Beats returns the card type t defeats in a cross-type matchup.
func (t CardType) Beats() CardType {
	switch t {
	case TypeRock:
		return TypeScissors
	case TypeScissors:
		return TypePaper
	case TypePaper:
		return TypeRock
	}
	return ""
}

// Card is an immutable (type, power) value. Identity is not tracked beyond
// type+power; a deck may contain duplicates.
type Card struct {
	Type  CardType `json:"type" yaml:"type"`
	Power int      `json:"power" yaml:"power"`
}

// Validate checks type and power bounds.
func (c Card) Validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("unknown card type %q", c.Type)
	}
	if c.Power < MinPower || c.Power > MaxPower {
		return fmt.Errorf("card power %d outside [%d, %d]", c.Power, MinPower, MaxPower)
	}
	return nil
}

func (c Card) String() string {
	return fmt.Sprintf("%s(%d)", c.Type, c.Power)
}
