package enums

// Option lists backing the profile and directory filter dropdowns.
// Kept server-side so both the driver form and the filter panel render
// from the same source.

var VehicleTypes = []string{"Minibus", "SUV", "Sedan"}

var Schools = []string{
	"Boston Primary School",
	"Groenvlei High School",
	"Heathfield High School",
	"Lotus River Primary School",
	"Plumstead High School",
	"Southfield Primary School",
	"Wynberg Boys' High School",
	"Wynberg Girls' High School",
}

var Races = []string{"Black", "Coloured", "Indian", "White"}

var Languages = []string{
	"Afrikaans",
	"English",
	"Sotho",
	"Xhosa",
	"Zulu",
}

type Catalog struct {
	VehicleTypes []string `json:"vehicleTypes"`
	Schools      []string `json:"schools"`
	Races        []string `json:"races"`
	Languages    []string `json:"languages"`
}

func All() Catalog {
	return Catalog{
		VehicleTypes: VehicleTypes,
		Schools:      Schools,
		Races:        Races,
		Languages:    Languages,
	}
}

// Valid reports whether v appears in the list, used by the profile
// handlers to reject values the dropdowns never offer.
func Valid(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
