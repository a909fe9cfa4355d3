// Package navigator is the per-session view controller. It owns the customer
// directory, the location tracker and the route planner of one open map page.
package navigator

import (
	"context"
	"errors"
	"sync"

	"customer-nav/internal/calculator"
	"customer-nav/internal/directory"
	"customer-nav/internal/mapview"
	"customer-nav/internal/models"
	"customer-nav/internal/planner"
	"customer-nav/internal/tracker"
)

type Options struct {
	FollowZoom         int
	RouteWhileDragging bool
}

type Controller struct {
	Directory *directory.Directory
	Tracker   *tracker.Tracker
	Planner   *planner.Planner

	surface mapview.Surface
	logger  mapview.Logger
	wg      sync.WaitGroup
}

func New(surface mapview.Surface, logger mapview.Logger, opts Options) *Controller {
	dir := directory.New()
	tr := tracker.New(surface, logger, opts.FollowZoom)
	return &Controller{
		Directory: dir,
		Tracker:   tr,
		Planner:   planner.New(dir, tr, surface, opts.RouteWhileDragging),
		surface:   surface,
		logger:    logger,
	}
}

// Start kicks off the one-shot directory fetch and the location tracker. Both
// stop when ctx is cancelled; Wait blocks until they have.
func (c *Controller) Start(ctx context.Context, src directory.Source, positions tracker.PositionSource) {
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		// failures are logged by Load
		_ = directory.Load(ctx, src, c.Directory, c.surface, c.logger)
	}()
	go func() {
		defer c.wg.Done()
		err := c.Tracker.Run(ctx, positions)
		// nobody reads samples any more; let producers stop
		if cl, ok := positions.(interface{ Close() }); ok {
			cl.Close()
		}
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, tracker.ErrUnavailable) {
			c.logger.Printf("location tracking stopped: %v", err)
		}
	}()
}

func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) Recenter() {
	c.Tracker.Recenter()
}

func (c *Controller) SetRoute(input string) bool {
	return c.Planner.SetRoute(input)
}

func (c *Controller) Navigate() bool {
	return c.Planner.Navigate()
}

// Summary describes the active route leg by leg.
type Summary struct {
	Waypoints []models.Coordinate `json:"waypoints"`
	Stops     []models.Customer   `json:"stops"`
	Legs      []models.RouteLeg   `json:"legs"`
	Distance  int                 `json:"distance"` // meters, straight line
}

// ErrNoRoute is returned by Route when no route has been set.
var ErrNoRoute = errors.New("no route set")

func (c *Controller) Route() (Summary, error) {
	r, ok := c.Planner.Active()
	if !ok {
		return Summary{}, ErrNoRoute
	}
	legs, err := calculator.Legs(r.Waypoints, r.Stops)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Waypoints: r.Waypoints,
		Stops:     r.Stops,
		Legs:      legs,
		Distance:  calculator.TotalDistance(legs),
	}, nil
}
