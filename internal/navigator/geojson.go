package navigator

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"customer-nav/internal/models"
)

func point(c models.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// FeatureCollection renders the route as a straight-line LineString through all
// waypoints plus one Point per waypoint.
func (s Summary) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(s.Waypoints))
	for _, wp := range s.Waypoints {
		line = append(line, point(wp))
	}
	route := geojson.NewFeature(line)
	route.Properties["kind"] = "route"
	route.Properties["distance"] = s.Distance
	fc.Append(route)

	for i, wp := range s.Waypoints {
		f := geojson.NewFeature(point(wp))
		f.Properties["index"] = i
		if i == 0 {
			f.Properties["kind"] = "start"
		} else {
			stop := s.Stops[i-1]
			f.Properties["kind"] = "stop"
			f.Properties["id"] = stop.ID
			f.Properties["name"] = stop.Name
			f.Properties["distance"] = s.Legs[i-1].Distance
		}
		fc.Append(f)
	}
	return fc
}
