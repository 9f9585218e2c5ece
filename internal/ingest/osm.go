package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"tripagent/internal/model"
)

// Client fetches points of interest for a city from OpenStreetMap: a
// Nominatim lookup resolves the city to an Overpass area, then an Overpass
// query pulls the tourism/historic elements inside it.
type Client struct {
	HTTP         *http.Client
	NominatimURL string
	OverpassURL  string
	UserAgent    string
}

func NewClient() *Client {
	return &Client{
		HTTP:         &http.Client{Timeout: 30 * time.Second},
		NominatimURL: "https://nominatim.openstreetmap.org/search",
		OverpassURL:  "https://overpass-api.de/api/interpreter",
		UserAgent:    "TravelPlannerAgent/1.0",
	}
}

// AreaID resolves a city name to an Overpass area ID. Relations map to
// id+3600000000, ways to id+2400000000.
func (c *Client) AreaID(ctx context.Context, city string) (int64, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("format", "json")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.NominatimURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("nominatim lookup for %s: %w", city, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("nominatim lookup for %s: status %d", city, resp.StatusCode)
	}
	var results []struct {
		OsmID   int64  `json:"osm_id"`
		OsmType string `json:"osm_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, fmt.Errorf("nominatim response: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("no OSM area found for %s", city)
	}
	switch results[0].OsmType {
	case "relation":
		return results[0].OsmID + 3600000000, nil
	case "way":
		return results[0].OsmID + 2400000000, nil
	}
	return 0, fmt.Errorf("unsupported OSM element type %q for %s", results[0].OsmType, city)
}

type overpassElement struct {
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *struct{ Lat, Lon float64 } `json:"center"`
	Tags   map[string]string `json:"tags"`
}

// FetchCitySpots pulls the city's attractions and returns them as validated
// spots: name-deduplicated, category inferred from tags, defaults applied for
// duration and rating, sorted by name.
func (c *Client) FetchCitySpots(ctx context.Context, city string) ([]model.Spot, error) {
	area, err := c.AreaID(ctx, city)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`[out:json][timeout:25];
area(%d)->.searchArea;
(
  node["tourism"~"attraction|museum|viewpoint|zoo|theme_park|gallery"](area.searchArea);
  way["tourism"~"attraction|museum|viewpoint|zoo|theme_park|gallery"](area.searchArea);
  relation["tourism"~"attraction|museum|viewpoint|zoo|theme_park|gallery"](area.searchArea);
  node["historic"~"monument|memorial|castle|ruins"](area.searchArea);
);
out center;`, area)

	form := url.Values{}
	form.Set("data", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.OverpassURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.UserAgent)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass query for %s: %w", city, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass query for %s: status %d", city, resp.StatusCode)
	}
	var body struct {
		Elements []overpassElement `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("overpass response: %w", err)
	}

	seen := map[string]bool{}
	var out []model.Spot
	for _, el := range body.Elements {
		name := el.Tags["name"]
		if name == "" {
			name = el.Tags["name:en"]
		}
		if name == "" || seen[name] {
			continue
		}
		lat, lon := el.Lat, el.Lon
		if lat == 0 && lon == 0 && el.Center != nil {
			lat, lon = el.Center.Lat, el.Center.Lon
		}
		if lat == 0 && lon == 0 {
			continue
		}
		seen[name] = true
		out = append(out, model.Spot{
			Name:            name,
			Lat:             lat,
			Lon:             lon,
			Category:        inferCategory(el.Tags),
			DurationMinutes: 60,
			Rating:          4.0,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func inferCategory(tags map[string]string) string {
	switch tags["tourism"] {
	case "museum":
		return "museum"
	case "zoo", "theme_park", "viewpoint":
		return "outdoor"
	}
	if tags["museum"] != "" {
		return "museum"
	}
	if tags["historic"] != "" {
		return "history"
	}
	return "sightseeing"
}
