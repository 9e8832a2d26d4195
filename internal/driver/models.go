package driver

import "time"

// Record is a driver's marketplace listing, keyed by the owning user's uid.
type Record struct {
	UID              string    `json:"uid"`
	VehicleType      string    `json:"vehicleType"`
	VehicleCapacity  int       `json:"vehicleCapacity"`
	AvailableSeats   int       `json:"availableSeats"`
	SupportedSchools []string  `json:"supportedSchools"`
	PricePerMonth    float64   `json:"pricePerMonth"`
	Race             string    `json:"race"`
	Languages        []string  `json:"languages"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DisplayPoint is the map-displayable projection of a driver joined to
// their user record. Built fresh on every directory request, never stored.
type DisplayPoint struct {
	ID             string   `json:"id"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Name           string   `json:"name"`
	ProfilePic     string   `json:"profilePic,omitempty"`
	Vehicle        string   `json:"vehicle"`
	Schools        []string `json:"schools"`
	MaxPassengers  int      `json:"max_passengers"`
	AvailableSeats int      `json:"available_seats"`
	Price          float64  `json:"price"`
	Race           string   `json:"race"`
	Languages      []string `json:"languages"`
	DistanceKm     float64  `json:"distance_km,omitempty"`
}

// userRow is the slice of the users table the merge step needs.
type userRow struct {
	UID         string
	FirstName   string
	LastName    string
	Image64     string
	Latitude    float64
	Longitude   float64
	LocationSet bool
}
