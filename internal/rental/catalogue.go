package rental

import "github.com/samber/lo"

// Bike is a rentable bike type.
type Bike struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Available int    `json:"available"`
	Icon      string `json:"icon"`
}

var catalogue = []Bike{
	{ID: 1, Name: "Gearless Scooty", Price: 50, Available: 8, Icon: "🏍️"},
	{ID: 2, Name: "Electric Bike", Price: 80, Available: 5, Icon: "⚡"},
	{ID: 3, Name: "Sports Bike", Price: 150, Available: 3, Icon: "🏎️"},
	{ID: 4, Name: "Cycle", Price: 20, Available: 12, Icon: "🚲"},
}

// Catalogue returns a copy of the rentable bikes.
func Catalogue() []Bike {
	out := make([]Bike, len(catalogue))
	copy(out, catalogue)
	return out
}

// TotalAvailable is the number of bikes available across all types.
func TotalAvailable(bikes []Bike) int {
	return lo.SumBy(bikes, func(b Bike) int { return b.Available })
}

// FindBike looks up a bike type by id.
func FindBike(bikes []Bike, id int) (Bike, bool) {
	return lo.Find(bikes, func(b Bike) bool { return b.ID == id })
}
