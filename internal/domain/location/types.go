package location

// MaxLocations bounds how many points of interest the registry keeps.
const MaxLocations = 2

// Location is a saved point of interest.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

// Candidate is a location that has not been assigned an identifier yet.
type Candidate struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// AddRequest is the payload accepted when adding a location by free text.
type AddRequest struct {
	Query string `json:"query"`
}

// AddResult carries the created location and the full resulting list.
type AddResult struct {
	Location  Location   `json:"location"`
	Locations []Location `json:"locations"`
}

// Config wires runtime settings for the registry.
type Config struct {
	Defaults []Candidate
}
