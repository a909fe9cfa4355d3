// Package tracker follows the user's device position and keeps a single
// location marker on the map in sync with it.
package tracker

import (
	"context"
	"errors"
	"sync"

	"customer-nav/internal/mapview"
	"customer-nav/internal/models"
)

const (
	MarkerID    = "current-location"
	MarkerTitle = "Your Location"
	MarkerPopup = "Your current location"

	MsgUnsupported   = "Geolocation is not supported by your browser"
	MsgNoLocationYet = "Current location not available yet."
)

// ErrUnavailable means the platform has no location capability at all.
var ErrUnavailable = errors.New("geolocation unavailable")

// Update is one entry of the position stream. Err is set for failed samples.
// Action, when set, is a page action queued behind the samples pushed before it;
// Run calls it in turn instead of treating the entry as a sample.
type Update struct {
	Position models.Coordinate
	Err      error
	Action   func()
}

// PositionSource is a continuous stream of position samples.
type PositionSource interface {
	Watch(ctx context.Context) (<-chan Update, error)
}

type Tracker struct {
	surface mapview.Surface
	logger  mapview.Logger
	zoom    int

	mu       sync.Mutex
	location models.Coordinate
	hasFix   bool
	marker   bool
}

func New(surface mapview.Surface, logger mapview.Logger, zoom int) *Tracker {
	return &Tracker{surface: surface, logger: logger, zoom: zoom}
}

// Run handles stream entries in arrival order until ctx is done or the stream
// ends. If Watch reports that the platform cannot provide positions the user is
// told once and Run returns ErrUnavailable. The same report inside the stream
// alerts once; later samples are ignored while queued actions still run.
func (t *Tracker) Run(ctx context.Context, src PositionSource) error {
	updates, err := src.Watch(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			t.surface.Alert(MsgUnsupported)
		} else {
			t.logger.Printf("Error fetching geolocation: %v", err)
		}
		return err
	}

	unavailable := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			switch {
			case u.Action != nil:
				u.Action()
			case unavailable:
			case errors.Is(u.Err, ErrUnavailable):
				t.surface.Alert(MsgUnsupported)
				unavailable = true
			default:
				t.Apply(u)
			}
		}
	}
}

// Apply handles one sample. Failed samples are logged and leave the last fix in place.
func (t *Tracker) Apply(u Update) {
	if u.Err != nil {
		t.logger.Printf("Error fetching geolocation: %v", u.Err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.location = u.Position
	t.hasFix = true

	if t.marker {
		t.surface.MoveMarker(MarkerID, u.Position)
	} else {
		t.surface.PlaceMarker(models.Marker{
			ID:       MarkerID,
			Position: u.Position,
			Title:    MarkerTitle,
			Popup:    MarkerPopup,
		})
		t.marker = true
	}

	t.surface.SetView(u.Position, t.zoom)
}

// Recenter moves the view back onto the location marker.
func (t *Tracker) Recenter() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.marker {
		t.surface.Alert(MsgNoLocationYet)
		return
	}
	t.surface.SetView(t.location, t.zoom)
}

// Location returns the last fix, if any.
func (t *Tracker) Location() (models.Coordinate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location, t.hasFix
}
