// Package catalog is the static card lookup service: a pool of (type, power)
// pairs supporting random draws and per-type queries. The pool is immutable
// once loaded; reads need no locking.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/battlecards/service/internal/models"
)

// Catalog holds the full card pool, indexed by type.
type Catalog struct {
	cards  []models.Card
	byType map[models.CardType][]models.Card
}

type catalogFile struct {
	Cards []models.Card `yaml:"cards"`
}

// Default returns the built-in pool: every type at every power 1 through 13.
func Default() *Catalog {
	cards := make([]models.Card, 0, len(models.CardTypes)*models.MaxPower)
	for _, t := range models.CardTypes {
		for power := models.MinPower; power <= models.MaxPower; power++ {
			cards = append(cards, models.Card{Type: t, Power: power})
		}
	}
	c, _ := New(cards)
	return c
}

// Load reads a YAML card pool from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(file.Cards)
}

// New builds a catalog from an explicit pool, validating every card. The
// pool must cover all three types so DrawType can always satisfy a request.
func New(cards []models.Card) (*Catalog, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	c := &Catalog{
		cards:  append([]models.Card(nil), cards...),
		byType: make(map[models.CardType][]models.Card),
	}
	for _, card := range c.cards {
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog card: %w", err)
		}
		c.byType[card.Type] = append(c.byType[card.Type], card)
	}
	for _, t := range models.CardTypes {
		if len(c.byType[t]) == 0 {
			return nil, fmt.Errorf("catalog has no %s cards", t)
		}
	}
	return c, nil
}

// All returns a copy of the full pool.
func (c *Catalog) All() []models.Card {
	return append([]models.Card(nil), c.cards...)
}

// ByType returns a copy of every card of the given type.
func (c *Catalog) ByType(t models.CardType) []models.Card {
	return append([]models.Card(nil), c.byType[t]...)
}

// DrawRandom returns n cards drawn uniformly from the pool, with repetition.
func (c *Catalog) DrawRandom(n int) []models.Card {
	out := make([]models.Card, n)
	for i := range out {
		out[i] = c.cards[rand.IntN(len(c.cards))]
	}
	return out
}

// DrawType returns n cards of the given type with random powers, with
// repetition.
func (c *Catalog) DrawType(t models.CardType, n int) []models.Card {
	pool := c.byType[t]
	out := make([]models.Card, n)
	for i := range out {
		out[i] = pool[rand.IntN(len(pool))]
	}
	return out
}
