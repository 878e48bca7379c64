// Package catalog supplies crop listings for assistant replies. It stands in
// for the future marketplace catalog service; the messaging core only reads
// from it.
package catalog

import (
	"strings"

	"github.com/agrilink/messaging/internal/models"
)

// Source provides the catalog views the intent router draws replies from.
type Source interface {
	// Nearby returns listings close to the buyer's location.
	Nearby() []models.ItemCard
	// Recent returns listings added most recently.
	Recent() []models.ItemCard
	// MatchName returns nearby listings whose name contains token
	// (case-insensitive substring match).
	MatchName(token string) []models.ItemCard
	// Organic returns nearby listings whose name or farmer mentions organic.
	Organic() []models.ItemCard
}

// Memory is an in-memory Source seeded with fixed listings.
type Memory struct {
	nearby []models.ItemCard
	recent []models.ItemCard
}

// NewMemory creates a Memory source with the given listings.
func NewMemory(nearby, recent []models.ItemCard) *Memory {
	return &Memory{nearby: nearby, recent: recent}
}

// Nearby returns a copy of the nearby listings.
func (m *Memory) Nearby() []models.ItemCard {
	return copyCards(m.nearby)
}

// Recent returns a copy of the recently added listings.
func (m *Memory) Recent() []models.ItemCard {
	return copyCards(m.recent)
}

// MatchName filters nearby listings by name substring. The match is
// deliberately loose ("corn" matches "Sweet Corn" but would also match
// "Popcorn"); tightening it would change established behavior.
func (m *Memory) MatchName(token string) []models.ItemCard {
	token = strings.ToLower(token)
	out := make([]models.ItemCard, 0, len(m.nearby))
	for _, c := range m.nearby {
		if strings.Contains(strings.ToLower(c.Name), token) {
			out = append(out, c)
		}
	}
	return out
}

// Organic filters nearby listings by "organic" in the name or farmer name.
func (m *Memory) Organic() []models.ItemCard {
	out := make([]models.ItemCard, 0, len(m.nearby))
	for _, c := range m.nearby {
		name := strings.ToLower(c.Name)
		farmer := strings.ToLower(c.FarmerName)
		if strings.Contains(name, "organic") || strings.Contains(farmer, "organic") {
			out = append(out, c)
		}
	}
	return out
}

func copyCards(cards []models.ItemCard) []models.ItemCard {
	out := make([]models.ItemCard, len(cards))
	copy(out, cards)
	return out
}
