package fleet

// BikeStatus is the state shown on the fleet map.
type BikeStatus string

const (
	BikeAvailable  BikeStatus = "available"
	BikeInUse      BikeStatus = "in-use"
	BikeHighDemand BikeStatus = "high-demand"
)

// Station is a docking station on the fleet map.
type Station struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Bikes int     `json:"bikes"`
}

// Bike is a single tracked bike.
type Bike struct {
	ID      int        `json:"id"`
	Lat     float64    `json:"lat"`
	Lng     float64    `json:"lng"`
	Status  BikeStatus `json:"status"`
	Station string     `json:"station"`
	Renter  *string    `json:"renter"`
}

var stations = []Station{
	{Name: "Vichva Central", Lat: 22.3073, Lng: 73.1210, Bikes: 25},
	{Name: "Whitefield IT Hub", Lat: 12.9716, Lng: 77.5946, Bikes: 35},
	{Name: "MG Road", Lat: 12.9249, Lng: 77.6284, Bikes: 28},
	{Name: "Sector 62 IT Park", Lat: 28.5355, Lng: 77.3910, Bikes: 22},
	{Name: "Connaught Place", Lat: 28.6139, Lng: 77.2090, Bikes: 30},
	{Name: "OMR IT Corridor", Lat: 13.0827, Lng: 80.2707, Bikes: 26},
	{Name: "Bandra Kurla", Lat: 19.0760, Lng: 72.8777, Bikes: 32},
	{Name: "Dadar Station", Lat: 18.9388, Lng: 72.8355, Bikes: 20},
}

func renter(name string) *string { return &name }

var bikes = []Bike{
	{ID: 1, Lat: 22.3073, Lng: 73.1210, Status: BikeAvailable, Station: "Vichva Central"},
	{ID: 2, Lat: 22.3080, Lng: 73.1220, Status: BikeInUse, Station: "Vichva Central", Renter: renter("Rahul S.")},
	{ID: 3, Lat: 22.3065, Lng: 73.1205, Status: BikeHighDemand, Station: "Vichva Central"},
	{ID: 4, Lat: 12.9716, Lng: 77.5946, Status: BikeInUse, Station: "Whitefield IT Hub", Renter: renter("Priya M.")},
	{ID: 5, Lat: 12.9720, Lng: 77.5950, Status: BikeAvailable, Station: "Whitefield IT Hub"},
	{ID: 6, Lat: 12.9700, Lng: 77.5930, Status: BikeHighDemand, Station: "Whitefield IT Hub"},
	{ID: 7, Lat: 28.5355, Lng: 77.3910, Status: BikeInUse, Station: "Sector 62 IT Park", Renter: renter("Amit K.")},
	{ID: 8, Lat: 28.5360, Lng: 77.3920, Status: BikeAvailable, Station: "Sector 62 IT Park"},
	{ID: 9, Lat: 28.6139, Lng: 77.2090, Status: BikeHighDemand, Station: "Connaught Place"},
	{ID: 10, Lat: 28.6140, Lng: 77.2080, Status: BikeAvailable, Station: "Connaught Place"},
	{ID: 11, Lat: 13.0827, Lng: 80.2707, Status: BikeInUse, Station: "OMR IT Corridor", Renter: renter("Divya R.")},
	{ID: 12, Lat: 19.0760, Lng: 72.8777, Status: BikeHighDemand, Station: "Bandra Kurla"},
	{ID: 13, Lat: 18.9388, Lng: 72.8355, Status: BikeAvailable, Station: "Dadar Station"},
}

// Stations returns a copy of the docking stations.
func Stations() []Station {
	out := make([]Station, len(stations))
	copy(out, stations)
	return out
}

// Bikes returns a copy of the tracked bikes.
func Bikes() []Bike {
	out := make([]Bike, len(bikes))
	copy(out, bikes)
	return out
}
