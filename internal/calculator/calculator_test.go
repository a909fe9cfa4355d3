package calculator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"customer-nav/internal/models"
)

func TestHaversineKnownDistance(t *testing.T) {
	// one degree of latitude is ~111.19 km on a 6371 km sphere
	d := Haversine(0, 0, 1, 0)
	require.InDelta(t, 111195, d, 1)
	require.Zero(t, Haversine(6.9271, 79.8612, 6.9271, 79.8612))
}

func TestLegs(t *testing.T) {
	user := models.Coordinate{Lat: 0, Lon: 0}
	a := models.Customer{ID: 1, Name: "A", Latitude: 1, Longitude: 0}
	b := models.Customer{ID: 2, Name: "B", Latitude: 2, Longitude: 0}

	legs, err := Legs([]models.Coordinate{user, a.Loc(), b.Loc()}, []models.Customer{a, b})
	require.NoError(t, err)
	require.Len(t, legs, 2)
	require.Equal(t, 1, legs[0].ToID)
	require.Equal(t, "B", legs[1].ToName)
	require.Equal(t, a.Loc(), legs[1].From)
	require.InDelta(t, 222390, TotalDistance(legs), 2)
}

func TestLegsRejectsMismatch(t *testing.T) {
	_, err := Legs([]models.Coordinate{{}}, nil)
	require.Error(t, err)

	_, err = Legs([]models.Coordinate{{}, {}}, nil)
	require.Error(t, err)
}

func TestRankNearest(t *testing.T) {
	customers := []models.Customer{
		{ID: 1, Name: "far", Latitude: 5, Longitude: 5},
		{ID: 2, Name: "near", Latitude: 0.1, Longitude: 0},
		{ID: 3, Name: "mid", Latitude: 1, Longitude: 1},
	}
	var logged []string
	rows, err := RankNearest(models.Coordinate{}, customers, 2, func(msg string) { logged = append(logged, msg) })
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 2, rows[0].Customer.ID)
	require.Equal(t, 3, rows[1].Customer.ID)
	require.NotEmpty(t, logged)

	all, err := RankNearest(models.Coordinate{}, customers, 0, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = RankNearest(models.Coordinate{}, nil, 1, nil)
	require.Error(t, err)
}
