package navigator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"customer-nav/internal/mapview/mapviewtest"
	"customer-nav/internal/models"
	"customer-nav/internal/planner"
	"customer-nav/internal/tracker"
)

var customers = []models.Customer{
	{ID: 1, Name: "A", Latitude: 1, Longitude: 1},
	{ID: 2, Name: "B", Latitude: 2, Longitude: 2},
}

type gatedSource struct {
	release chan struct{}
}

func (s gatedSource) Customers(ctx context.Context) ([]models.Customer, error) {
	select {
	case <-s.release:
		return customers, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func start(t *testing.T) (*Controller, *mapviewtest.Recorder, *tracker.Feed, chan struct{}) {
	t.Helper()
	rec := mapviewtest.NewRecorder()
	c := New(rec, &mapviewtest.Logger{}, Options{FollowZoom: 15, RouteWhileDragging: true})
	feed := tracker.NewFeed()
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, gatedSource{release: release}, feed)
	t.Cleanup(func() {
		cancel()
		feed.Close()
		c.Wait()
	})
	return c, rec, feed, release
}

func TestSessionFlow(t *testing.T) {
	c, rec, feed, release := start(t)

	// directory still in flight: every lookup fails
	feed.Push(tracker.Update{Position: models.Coordinate{Lat: 0, Lon: 0}})
	require.Eventually(t, func() bool { _, ok := c.Tracker.Location(); return ok }, time.Second, 5*time.Millisecond)
	require.False(t, c.SetRoute("1"))
	require.Equal(t, []string{planner.MsgInvalidIDs}, rec.AlertList())

	close(release)
	require.Eventually(t, c.Directory.Loaded, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return rec.MarkerCount() == 3 }, time.Second, 5*time.Millisecond)

	require.False(t, c.Navigate())
	require.True(t, c.SetRoute("2,1"))
	require.True(t, c.Navigate())

	summary, err := c.Route()
	require.NoError(t, err)
	require.Equal(t, []models.Customer{customers[1], customers[0]}, summary.Stops)
	require.Len(t, summary.Legs, 2)
	require.Equal(t, summary.Legs[0].Distance+summary.Legs[1].Distance, summary.Distance)

	c.Recenter()
	v, _ := rec.LastView()
	require.Equal(t, models.Coordinate{}, v.Center)
}

func TestRouteWithoutRoute(t *testing.T) {
	c, _, _, _ := start(t)
	_, err := c.Route()
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestSummaryFeatureCollection(t *testing.T) {
	s := Summary{
		Waypoints: []models.Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 2}},
		Stops:     []models.Customer{{ID: 7, Name: "G", Latitude: 1, Longitude: 2}},
		Legs:      []models.RouteLeg{{Distance: 248000}},
		Distance:  248000,
	}
	fc := s.FeatureCollection()
	require.Len(t, fc.Features, 3)
	require.Equal(t, "route", fc.Features[0].Properties["kind"])
	require.Equal(t, "start", fc.Features[1].Properties["kind"])
	require.Equal(t, 7, fc.Features[2].Properties["id"])

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"type":"LineString"`)
	require.Contains(t, string(raw), `"coordinates":[2,1]`)
}
