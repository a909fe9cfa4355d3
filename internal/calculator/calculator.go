package calculator

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"customer-nav/internal/models"
)

type LoggerCallback func(msg string)

// Legs returns the straight-line legs between consecutive waypoints. stops[i] is the
// customer reached at waypoints[i+1].
func Legs(waypoints []models.Coordinate, stops []models.Customer) ([]models.RouteLeg, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("need at least 2 waypoints, got %d", len(waypoints))
	}
	if len(stops) != len(waypoints)-1 {
		return nil, fmt.Errorf("%d stops for %d waypoints", len(stops), len(waypoints))
	}

	legs := make([]models.RouteLeg, 0, len(stops))
	for i := 0; i < len(waypoints)-1; i++ {
		from, to := waypoints[i], waypoints[i+1]
		legs = append(legs, models.RouteLeg{
			Index:    i,
			From:     from,
			To:       to,
			ToID:     stops[i].ID,
			ToName:   stops[i].Name,
			Distance: int(math.Round(Distance(from, to))),
		})
	}
	return legs, nil
}

// TotalDistance sums leg distances in meters.
func TotalDistance(legs []models.RouteLeg) int {
	total := 0
	for _, l := range legs {
		total += l.Distance
	}
	return total
}

// RankNearest orders customers by distance from origin and keeps the first limit rows
// (limit <= 0 keeps all). Distances are computed in parallel chunks, one per CPU.
func RankNearest(origin models.Coordinate, customers []models.Customer, limit int, logger LoggerCallback) ([]models.NearestRow, error) {
	if len(customers) == 0 {
		return nil, fmt.Errorf("empty customer list")
	}

	total := len(customers)
	results := make([]models.NearestRow, total)

	numCPU := runtime.NumCPU()
	if numCPU < 1 {
		numCPU = 1
	}
	chunkSize := (total + numCPU - 1) / numCPU

	var wg sync.WaitGroup

	if logger != nil {
		logger(fmt.Sprintf("Ranking %d customers with %d CPUs", total, numCPU))
	}

	for i := 0; i < numCPU; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if start >= total {
			break
		}
		if end > total {
			end = total
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for idx := s; idx < e; idx++ {
				c := customers[idx]
				results[idx] = models.NearestRow{
					Customer: c,
					Distance: int(math.Round(Distance(origin, c.Loc()))),
				}
			}
		}(start, end)
	}

	wg.Wait()

	// stable keeps directory order between equidistant customers
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}
