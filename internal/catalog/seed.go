package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agrilink/messaging/internal/models"
)

// seedFile is the YAML shape of an external catalog seed.
type seedFile struct {
	Nearby []seedItem `yaml:"nearby"`
	Recent []seedItem `yaml:"recent"`
}

type seedItem struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Image    string  `yaml:"image"`
	Price    float64 `yaml:"price"`
	Unit     string  `yaml:"unit"`
	Distance string  `yaml:"distance"`
	Farmer   string  `yaml:"farmer"`
}

// Load builds a Memory source from a YAML seed file. An empty path returns
// the built-in demo catalog.
func Load(path string) (*Memory, error) {
	if path == "" {
		return NewMemory(defaultNearby(), defaultRecent()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}

	nearby, err := toCards(seed.Nearby)
	if err != nil {
		return nil, fmt.Errorf("catalog seed nearby: %w", err)
	}
	recent, err := toCards(seed.Recent)
	if err != nil {
		return nil, fmt.Errorf("catalog seed recent: %w", err)
	}

	return NewMemory(nearby, recent), nil
}

func toCards(items []seedItem) ([]models.ItemCard, error) {
	cards := make([]models.ItemCard, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			return nil, fmt.Errorf("item %q: name is required", it.ID)
		}
		if it.Price <= 0 {
			return nil, fmt.Errorf("item %q: price must be positive", it.Name)
		}
		cards = append(cards, models.ItemCard{
			ID:         it.ID,
			Name:       it.Name,
			ImageURL:   it.Image,
			Price:      it.Price,
			Unit:       it.Unit,
			Distance:   it.Distance,
			FarmerName: it.Farmer,
		})
	}
	return cards, nil
}

// defaultNearby returns the demo listings within delivery range.
func defaultNearby() []models.ItemCard {
	return []models.ItemCard{
		{
			ID:         "1",
			Name:       "Fresh Tomatoes",
			ImageURL:   "https://images.unsplash.com/photo-1518977676601-b53f82aba655?w=150&h=150&fit=crop",
			Price:      3.50,
			Unit:       "kg",
			Distance:   "2.5 km",
			FarmerName: "Green Valley Farm",
		},
		{
			ID:         "2",
			Name:       "Organic Carrots",
			ImageURL:   "https://images.unsplash.com/photo-1445282768818-728615cc910a?w=150&h=150&fit=crop",
			Price:      2.25,
			Unit:       "kg",
			Distance:   "3.8 km",
			FarmerName: "Sunshine Acres",
		},
		{
			ID:         "3",
			Name:       "Sweet Corn",
			ImageURL:   "https://images.unsplash.com/photo-1551754655-cd27e38d2076?w=150&h=150&fit=crop",
			Price:      4.00,
			Unit:       "dozen",
			Distance:   "5.2 km",
			FarmerName: "Riverside Farm",
		},
	}
}

// defaultRecent returns the demo listings added in the last few minutes.
func defaultRecent() []models.ItemCard {
	return []models.ItemCard{
		{
			ID:         "4",
			Name:       "Bell Peppers",
			ImageURL:   "https://images.unsplash.com/photo-1563565375-f3fdfdbefa83?w=150&h=150&fit=crop",
			Price:      5.75,
			Unit:       "kg",
			Distance:   "1.2 km",
			FarmerName: "Valley Gardens",
		},
		{
			ID:         "5",
			Name:       "Fresh Lettuce",
			ImageURL:   "https://images.unsplash.com/photo-1622206151226-18ca2c9ab4a1?w=150&h=150&fit=crop",
			Price:      1.80,
			Unit:       "head",
			Distance:   "4.6 km",
			FarmerName: "Green Leaf Co.",
		},
	}
}
