package models

type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Customer is one record of the customer listing. Records are immutable once fetched.
type Customer struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Customer) Loc() Coordinate {
	return Coordinate{Lat: c.Latitude, Lon: c.Longitude}
}

// Marker is a pin on the map with an optional popup label.
type Marker struct {
	ID       string     `json:"id"`
	Position Coordinate `json:"position"`
	Title    string     `json:"title,omitempty"`
	Popup    string     `json:"popup,omitempty"`
}

type RouteLeg struct {
	Index    int        `json:"index"`
	From     Coordinate `json:"from"`
	To       Coordinate `json:"to"`
	ToName   string     `json:"to_name"`
	ToID     int        `json:"to_id"`
	Distance int        `json:"distance"` // meters, straight line
}

type NearestRow struct {
	Customer Customer `json:"customer"`
	Distance int      `json:"distance"` // meters
}
