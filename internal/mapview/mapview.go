// Package mapview describes what the session controller can do to the map on screen:
// place and move markers, move the viewport, draw routes through the routing
// library and raise blocking notifications.
package mapview

import "customer-nav/internal/models"

type Map interface {
	PlaceMarker(m models.Marker)
	MoveMarker(id string, pos models.Coordinate)
	SetView(center models.Coordinate, zoom int)
}

// RouteHandle identifies a route drawn by the routing library.
type RouteHandle string

// MarkerFactory builds the marker for waypoint i of n.
type MarkerFactory func(i int, wp models.Coordinate, n int) models.Marker

type RouteOptions struct {
	Waypoints          []models.Coordinate
	RouteWhileDragging bool
	CreateMarker       MarkerFactory
}

// Router is the routing library. Path computation happens on its side.
type Router interface {
	AddRoute(opts RouteOptions) RouteHandle
	RemoveRoute(h RouteHandle)
	// SetRouteIndex moves the plan cursor of route h to leg index.
	SetRouteIndex(h RouteHandle, index int)
}

type Notifier interface {
	Alert(msg string)
}

type Surface interface {
	Map
	Router
	Notifier
}

// Logger is the diagnostic channel. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}
