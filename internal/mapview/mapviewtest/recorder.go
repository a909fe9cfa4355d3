// Package mapviewtest provides an in-memory mapview.Surface for tests.
package mapviewtest

import (
	"fmt"
	"sync"

	"customer-nav/internal/mapview"
	"customer-nav/internal/models"
)

type View struct {
	Center models.Coordinate
	Zoom   int
}

type Route struct {
	Handle  mapview.RouteHandle
	Options mapview.RouteOptions
	Markers []models.Marker
	Index   int // -1 until SetRouteIndex is called
}

// Recorder keeps the state a real map would show.
type Recorder struct {
	mu sync.Mutex

	Markers  map[string]models.Marker
	Placed   []models.Marker
	Moves    int
	Views    []View
	Routes   map[mapview.RouteHandle]*Route
	Added    []mapview.RouteHandle
	Removed  []mapview.RouteHandle
	Alerts   []string
	nextID   int
}

func NewRecorder() *Recorder {
	return &Recorder{
		Markers: make(map[string]models.Marker),
		Routes:  make(map[mapview.RouteHandle]*Route),
	}
}

var _ mapview.Surface = (*Recorder)(nil)

func (r *Recorder) PlaceMarker(m models.Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Markers[m.ID] = m
	r.Placed = append(r.Placed, m)
}

func (r *Recorder) MoveMarker(id string, pos models.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.Markers[id]
	if !ok {
		panic(fmt.Sprintf("move of unknown marker %q", id))
	}
	m.Position = pos
	r.Markers[id] = m
	r.Moves++
}

func (r *Recorder) SetView(center models.Coordinate, zoom int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Views = append(r.Views, View{Center: center, Zoom: zoom})
}

func (r *Recorder) AddRoute(opts mapview.RouteOptions) mapview.RouteHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	h := mapview.RouteHandle(fmt.Sprintf("route-%d", r.nextID))
	route := &Route{Handle: h, Options: opts, Index: -1}
	n := len(opts.Waypoints)
	for i, wp := range opts.Waypoints {
		route.Markers = append(route.Markers, opts.CreateMarker(i, wp, n))
	}
	r.Routes[h] = route
	r.Added = append(r.Added, h)
	return h
}

func (r *Recorder) RemoveRoute(h mapview.RouteHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Routes, h)
	r.Removed = append(r.Removed, h)
}

func (r *Recorder) SetRouteIndex(h mapview.RouteHandle, index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if route, ok := r.Routes[h]; ok {
		route.Index = index
	}
}

func (r *Recorder) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Alerts = append(r.Alerts, msg)
}

// ActiveRoutes returns the routes currently on the map.
func (r *Recorder) ActiveRoutes() []*Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Route
	for _, h := range r.Added {
		if route, ok := r.Routes[h]; ok {
			out = append(out, route)
		}
	}
	return out
}

func (r *Recorder) AlertList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Alerts...)
}

func (r *Recorder) Marker(id string) (models.Marker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.Markers[id]
	return m, ok
}

func (r *Recorder) MarkerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Markers)
}

func (r *Recorder) LastView() (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Views) == 0 {
		return View{}, false
	}
	return r.Views[len(r.Views)-1], true
}

// Logger collects Printf lines.
type Logger struct {
	mu    sync.Mutex
	Lines []string
}

func (l *Logger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, fmt.Sprintf(format, v...))
}

func (l *Logger) All() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Lines...)
}
