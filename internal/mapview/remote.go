package mapview

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"customer-nav/internal/models"
)

// Command types sent to the page.
const (
	CmdConfig      = "config"
	CmdMarkerAdd   = "marker.add"
	CmdMarkerMove  = "marker.move"
	CmdViewSet     = "view.set"
	CmdRouteAdd    = "route.add"
	CmdRouteRemove = "route.remove"
	CmdRouteIndex  = "route.index"
	CmdAlert       = "alert"
)

// Update is one command frame.
type Update struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ViewData struct {
	Center models.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`
}

type MoveData struct {
	ID       string            `json:"id"`
	Position models.Coordinate `json:"position"`
}

type RouteData struct {
	Handle             RouteHandle         `json:"handle"`
	Waypoints          []models.Coordinate `json:"waypoints"`
	RouteWhileDragging bool                `json:"route_while_dragging"`
	Markers            []models.Marker     `json:"markers"`
	// Inserted labels waypoints the user adds by dragging the route line.
	Inserted           models.Marker       `json:"inserted"`
}

type RouteIndexData struct {
	Handle RouteHandle `json:"handle"`
	Index  int         `json:"index"`
}

type AlertData struct {
	Message string `json:"message"`
}

// Conn is the write side of a websocket connection.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// Remote drives the map rendered by a connected page. Every call becomes one JSON
// text frame; frames are written one at a time in call order.
type Remote struct {
	conn   Conn
	mu     sync.Mutex
	logger Logger
}

var _ Surface = (*Remote)(nil)

func NewRemote(conn Conn, logger Logger) *Remote {
	return &Remote{conn: conn, logger: logger}
}

// Send writes a raw command frame.
func (r *Remote) Send(updateType string, data interface{}) error {
	jsonData, err := json.Marshal(Update{Type: updateType, Data: data})
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.WriteMessage(websocket.TextMessage, jsonData)
}

func (r *Remote) send(updateType string, data interface{}) {
	if err := r.Send(updateType, data); err != nil {
		r.logger.Printf("Error sending %s: %v", updateType, err)
	}
}

func (r *Remote) PlaceMarker(m models.Marker) {
	r.send(CmdMarkerAdd, m)
}

func (r *Remote) MoveMarker(id string, pos models.Coordinate) {
	r.send(CmdMarkerMove, MoveData{ID: id, Position: pos})
}

func (r *Remote) SetView(center models.Coordinate, zoom int) {
	r.send(CmdViewSet, ViewData{Center: center, Zoom: zoom})
}

// AddRoute runs the marker factory here and ships the resulting markers with the
// waypoints, so the page only has to hand them to the routing control. Inserted
// covers stops the routing control adds on its own.
func (r *Remote) AddRoute(opts RouteOptions) RouteHandle {
	h := RouteHandle(uuid.New().String())
	n := len(opts.Waypoints)
	markers := make([]models.Marker, 0, n)
	var inserted models.Marker
	if opts.CreateMarker != nil {
		for i, wp := range opts.Waypoints {
			markers = append(markers, opts.CreateMarker(i, wp, n))
		}
		// an inner stop of the route grown by one
		inserted = opts.CreateMarker(1, models.Coordinate{}, n+1)
	}
	r.send(CmdRouteAdd, RouteData{
		Handle:             h,
		Waypoints:          opts.Waypoints,
		RouteWhileDragging: opts.RouteWhileDragging,
		Markers:            markers,
		Inserted:           inserted,
	})
	return h
}

func (r *Remote) RemoveRoute(h RouteHandle) {
	r.send(CmdRouteRemove, RouteIndexData{Handle: h})
}

func (r *Remote) SetRouteIndex(h RouteHandle, index int) {
	r.send(CmdRouteIndex, RouteIndexData{Handle: h, Index: index})
}

func (r *Remote) Alert(msg string) {
	r.send(CmdAlert, AlertData{Message: msg})
}
