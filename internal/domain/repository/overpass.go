package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/serjvanilla/go-overpass"

	"crop_service/internal/domain/model"
)

// OverpassRegionLocator resolves a region name to the coordinates of the
// matching OSM place node.
type OverpassRegionLocator struct {
	client  *overpass.Client
	timeout time.Duration
}

func NewOverpassRegionLocator(endpoint string, timeout time.Duration) *OverpassRegionLocator {
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client := overpass.NewWithSettings(endpoint, 2, httpClient)
	return &OverpassRegionLocator{
		client:  &client,
		timeout: timeout,
	}
}

func (r *OverpassRegionLocator) Locate(ctx context.Context, region string) (model.Location, error) {
	name := strings.TrimSpace(region)
	if name == "" {
		return model.Location{}, model.ErrRegionRequired
	}

	result, err := r.executeQuery(ctx, placeQuery(name))
	if err != nil {
		return model.Location{}, fmt.Errorf("failed to execute place query: %w", err)
	}

	loc, ok := pickPlace(result, name)
	if !ok {
		return model.Location{}, fmt.Errorf("%w: %s", model.ErrRegionNotFound, name)
	}
	return loc, nil
}

func placeQuery(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `\"`)
	return fmt.Sprintf(`
		[out:json];
		area["ISO3166-1"="IN"][admin_level=2]->.country;
		(
			node["place"~"city|town|district"]["name"~"^%s$",i](area.country);
		);
		out body;
	`, escaped)
}

func (r *OverpassRegionLocator) executeQuery(ctx context.Context, query string) (*overpass.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type outcome struct {
		result overpass.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := r.client.Query(query)
		done <- outcome{result: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("overpass query: %w", ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("overpass query failed: %w", out.err)
		}
		return &out.result, nil
	}
}

// placeRank orders place kinds so a city wins over a town or district.
var placeRank = map[string]int{"city": 3, "town": 2, "district": 1}

func pickPlace(result *overpass.Result, region string) (model.Location, bool) {
	var (
		best     model.Location
		bestRank int
		bestID   int64
		found    bool
	)
	for _, node := range result.Nodes {
		if node == nil {
			continue
		}
		rank := placeRank[node.Tags["place"]]
		if !found || rank > bestRank || (rank == bestRank && node.ID < bestID) {
			best = model.Location{Region: model.NormalizeRegion(region), Lat: node.Lat, Lon: node.Lon}
			bestRank = rank
			bestID = node.ID
			found = true
		}
	}
	return best, found
}
