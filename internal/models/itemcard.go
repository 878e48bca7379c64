package models

// ItemCard is a read-only crop listing embedded in item-list replies.
// The catalog collaborator owns this data; the messaging core only displays it.
type ItemCard struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"image_url"`
	Price      float64 `json:"price"` // per unit, always > 0
	Unit       string  `json:"unit"`
	Distance   string  `json:"distance"`
	FarmerName string  `json:"farmer_name"`
}
