package directory

import (
	"context"
	"fmt"
	"html"

	"customer-nav/internal/mapview"
	"customer-nav/internal/models"
)

// MarkerID is the map id of a customer's marker.
func MarkerID(c models.Customer) string {
	return fmt.Sprintf("customer-%d", c.ID)
}

// CustomerMarker builds the pin shown for a customer.
func CustomerMarker(c models.Customer) models.Marker {
	return models.Marker{
		ID:       MarkerID(c),
		Position: c.Loc(),
		Popup: fmt.Sprintf("<b>%s</b><br>Lat: %v, Lon: %v",
			html.EscapeString(c.Name), c.Latitude, c.Longitude),
	}
}

// Load fetches the listing once, fills dir and pins every record on the map.
// A failed fetch is only logged and leaves dir empty.
func Load(ctx context.Context, src Source, dir *Directory, m mapview.Map, logger mapview.Logger) error {
	customers, err := src.Customers(ctx)
	if err != nil {
		logger.Printf("Error fetching customer data: %v", err)
		return err
	}
	if !dir.Replace(customers) {
		return fmt.Errorf("directory already loaded")
	}
	for _, c := range customers {
		m.PlaceMarker(CustomerMarker(c))
	}
	return nil
}
