package model

// Item is a food entry as served by the item service.
// The service owns it; we only ever hold a read-only copy.
type Item struct {
	ID         int64   `json:"item_id"`
	Name       string  `json:"item_name"`
	EnergyKcal float64 `json:"energy_Kcal"`
	FoodType   string  `json:"food_type,omitempty"`
}

// TotalKcal sums the energy of every item.
func TotalKcal(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.EnergyKcal
	}
	return total
}
