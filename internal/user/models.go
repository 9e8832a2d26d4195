package user

import "time"

type Profile struct {
	ID               string    `json:"id"`
	UID              string    `json:"uid"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Role             string    `json:"role"`
	LocationSet      bool      `json:"locationSet"`
	PfpSet           bool      `json:"pfpSet"`
	DriverProfileSet bool      `json:"driverProfileSet"`
	Latitude         float64   `json:"latitude,omitempty"`
	Longitude        float64   `json:"longitude,omitempty"`
	LocationAddress  string    `json:"locationAddress,omitempty"`
	Image64          string    `json:"image64,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type LocationUpdate struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	LocationAddress string  `json:"locationAddress"`
}

type PictureUpdate struct {
	Image64 string `json:"image64"`
}
