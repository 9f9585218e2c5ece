package spots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tripagent/internal/model"
)

// ErrCityNotFound means no spot data file exists for the requested city.
var ErrCityNotFound = errors.New("no spot data for city")

// filePath maps a city to its data file, data/spots_<city>.json. City names
// are case-insensitive on disk.
func filePath(dir, city string) string {
	return filepath.Join(dir, "spots_"+strings.ToLower(city)+".json")
}

// Load reads and validates a city's spot file.
func Load(dir, city string) ([]model.Spot, error) {
	b, err := os.ReadFile(filePath(dir, city))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCityNotFound, city)
		}
		return nil, fmt.Errorf("read spots for %s: %w", city, err)
	}
	var out []model.Spot
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("corrupted spot data for %s: %w", city, err)
	}
	for i, s := range out {
		if err := Validate(s); err != nil {
			return nil, fmt.Errorf("spot %d in %s: %w", i, city, err)
		}
	}
	return out, nil
}

// Save writes a city's spot file atomically (temp file + rename).
func Save(dir, city string, spots []model.Spot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(spots, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "spots_*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filePath(dir, city))
}

// Cities lists the cities with a spot data file, sorted.
func Cities(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "spots_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(strings.TrimPrefix(name, "spots_"), ".json"))
	}
	sort.Strings(out)
	return out, nil
}

// Validate rejects spots the core cannot work with. Rating and duration are
// optional; zero means absent.
func Validate(s model.Spot) error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("spot name must not be empty")
	}
	if s.Lat < -90 || s.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", s.Lat)
	}
	if s.Lon < -180 || s.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", s.Lon)
	}
	if s.Rating != 0 && (s.Rating < 1 || s.Rating > 5) {
		return fmt.Errorf("rating %v out of range [1, 5]", s.Rating)
	}
	if s.DurationMinutes < 0 {
		return fmt.Errorf("duration %d must not be negative", s.DurationMinutes)
	}
	return nil
}
