// Package planner turns a typed list of customer IDs into a route drawn by the
// routing library, starting at the user's current location.
package planner

import (
	"strconv"
	"strings"
	"sync"

	"customer-nav/internal/directory"
	"customer-nav/internal/mapview"
	"customer-nav/internal/models"
)

const (
	MsgInvalidIDs    = "Invalid customer IDs. Please check and try again."
	MsgNoLocationYet = "Current location not available yet."
)

// RequestedID is one entry of the typed list. Entries that are not integers stay
// in the list with Valid false so they can never resolve.
type RequestedID struct {
	Raw   string
	ID    int
	Valid bool
}

// ParseIDs splits comma separated input into requested IDs, trimming each entry.
func ParseIDs(input string) []RequestedID {
	parts := strings.Split(strings.TrimSpace(input), ",")
	out := make([]RequestedID, 0, len(parts))
	for _, p := range parts {
		raw := strings.TrimSpace(p)
		id, err := strconv.Atoi(raw)
		out = append(out, RequestedID{Raw: raw, ID: id, Valid: err == nil})
	}
	return out
}

// Resolve looks every requested ID up in dir. The result holds only the entries
// that matched exactly one record, in request order.
func Resolve(ids []RequestedID, dir *directory.Directory) []models.Customer {
	out := make([]models.Customer, 0, len(ids))
	for _, r := range ids {
		if !r.Valid {
			continue
		}
		c, n := dir.Lookup(r.ID)
		if n != 1 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MarkerFor labels the first waypoint Start, the last End and the rest Waypoint.
func MarkerFor(i int, wp models.Coordinate, n int) models.Marker {
	m := models.Marker{Position: wp}
	switch {
	case i == 0:
		m.Title, m.Popup = "Start", "Start Location"
	case i == n-1:
		m.Title, m.Popup = "End", "End Location"
	default:
		m.Title, m.Popup = "Waypoint", "Waypoint"
	}
	return m
}

// Locator reports the user's last position fix.
type Locator interface {
	Location() (models.Coordinate, bool)
}

// Route is the active route as drawn.
type Route struct {
	Handle    mapview.RouteHandle
	Waypoints []models.Coordinate
	Stops     []models.Customer
}

type Planner struct {
	dir      *directory.Directory
	locator  Locator
	surface  mapview.Surface
	dragging bool

	mu     sync.Mutex
	active *Route
}

func New(dir *directory.Directory, locator Locator, surface mapview.Surface, routeWhileDragging bool) *Planner {
	return &Planner{
		dir:      dir,
		locator:  locator,
		surface:  surface,
		dragging: routeWhileDragging,
	}
}

// SetRoute validates input and, if every ID resolves, replaces the active route
// with one from the user's location through the customers in typed order.
// It reports whether a route was drawn.
func (p *Planner) SetRoute(input string) bool {
	ids := ParseIDs(input)
	stops := Resolve(ids, p.dir)
	if len(stops) != len(ids) {
		p.surface.Alert(MsgInvalidIDs)
		return false
	}

	start, ok := p.locator.Location()
	if !ok {
		p.surface.Alert(MsgNoLocationYet)
		return false
	}

	waypoints := make([]models.Coordinate, 0, len(stops)+1)
	waypoints = append(waypoints, start)
	for _, c := range stops {
		waypoints = append(waypoints, c.Loc())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		p.surface.RemoveRoute(p.active.Handle)
		p.active = nil
	}

	h := p.surface.AddRoute(mapview.RouteOptions{
		Waypoints:          waypoints,
		RouteWhileDragging: p.dragging,
		CreateMarker:       MarkerFor,
	})
	p.active = &Route{Handle: h, Waypoints: waypoints, Stops: stops}
	return true
}

// Active returns a copy of the active route.
func (p *Planner) Active() (Route, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return Route{}, false
	}
	r := *p.active
	r.Waypoints = append([]models.Coordinate(nil), r.Waypoints...)
	r.Stops = append([]models.Customer(nil), r.Stops...)
	return r, true
}
