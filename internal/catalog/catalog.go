// Package catalog holds the destinations, seat classes and accommodations
// that can be booked, along with the static travel tips.  The built-in
// catalog can be replaced by a YAML file at startup.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/space-travel-booking/internal/model"
)

// ErrUnknownDestination is returned when a destination key matches neither
// an ID nor a name in the catalog.
var ErrUnknownDestination = errors.New("unknown destination")

// ErrUnknownSeatClass is returned when the destination exists but does not
// sell the requested seat class.
var ErrUnknownSeatClass = errors.New("unknown seat class")

// MaxPricePerDay caps seat class rates so trip totals stay far from int64
// overflow.
const MaxPricePerDay int64 = 1_000_000_000_000

// Catalog is an immutable, ordered set of destinations.
type Catalog struct {
	destinations []model.Destination
	tips         []string
}

// file mirrors the YAML layout accepted by Load.
type file struct {
	Destinations []model.Destination `yaml:"destinations"`
	Tips         []string            `yaml:"tips"`
}

// New builds a catalog from the given destinations, filling in missing IDs
// and validating the result.  Nil tips fall back to the default tips.
func New(destinations []model.Destination, tips []string) (*Catalog, error) {
	if len(destinations) == 0 {
		return nil, errors.New("catalog: no destinations")
	}
	out := make([]model.Destination, 0, len(destinations))
	seen := make(map[string]bool, len(destinations))
	for _, d := range destinations {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return nil, errors.New("catalog: destination without name")
		}
		if d.ID == "" {
			d.ID = model.Slug(d.Name)
		}
		key := strings.ToLower(d.Name)
		if seen[key] || seen[d.ID] {
			return nil, fmt.Errorf("catalog: duplicate destination %q", d.Name)
		}
		seen[key], seen[d.ID] = true, true
		if len(d.SeatClasses) == 0 {
			return nil, fmt.Errorf("catalog: destination %q has no seat classes", d.Name)
		}
		classes := make([]model.SeatClass, 0, len(d.SeatClasses))
		classSeen := map[string]bool{}
		for _, sc := range d.SeatClasses {
			sc.Name = strings.TrimSpace(sc.Name)
			if sc.Name == "" {
				return nil, fmt.Errorf("catalog: %q has a seat class without name", d.Name)
			}
			if sc.ID == "" {
				sc.ID = model.Slug(sc.Name)
			}
			if sc.PricePerDay <= 0 {
				return nil, fmt.Errorf("catalog: %q/%q price must be positive", d.Name, sc.Name)
			}
			if sc.PricePerDay > MaxPricePerDay {
				return nil, fmt.Errorf("catalog: %q/%q price %d exceeds %d", d.Name, sc.Name, sc.PricePerDay, MaxPricePerDay)
			}
			if classSeen[sc.ID] {
				return nil, fmt.Errorf("catalog: %q has duplicate seat class %q", d.Name, sc.Name)
			}
			classSeen[sc.ID] = true
			classes = append(classes, sc)
		}
		d.SeatClasses = classes
		d.Accommodations = append([]string(nil), d.Accommodations...)
		out = append(out, d)
	}
	if tips == nil {
		tips = defaultTips
	}
	return &Catalog{destinations: out, tips: append([]string(nil), tips...)}, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultDestinations(), nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from a YAML file.  An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(f.Destinations, f.Tips)
}

// Destinations returns a copy of all destinations in catalog order.
func (c *Catalog) Destinations() []model.Destination {
	out := make([]model.Destination, len(c.destinations))
	for i, d := range c.destinations {
		out[i] = clone(d)
	}
	return out
}

// Destination resolves a destination by ID or case-insensitive name.
func (c *Catalog) Destination(key string) (model.Destination, error) {
	k := strings.TrimSpace(key)
	for _, d := range c.destinations {
		if d.ID == k || strings.EqualFold(d.Name, k) {
			return clone(d), nil
		}
	}
	return model.Destination{}, fmt.Errorf("%w: %q", ErrUnknownDestination, key)
}

// SeatClass resolves a seat class of a destination.  Both keys accept an ID
// or a case-insensitive name.
func (c *Catalog) SeatClass(destKey, classKey string) (model.Destination, model.SeatClass, error) {
	d, err := c.Destination(destKey)
	if err != nil {
		return model.Destination{}, model.SeatClass{}, err
	}
	k := strings.TrimSpace(classKey)
	for _, sc := range d.SeatClasses {
		if sc.ID == k || strings.EqualFold(sc.Name, k) {
			return d, sc, nil
		}
	}
	return d, model.SeatClass{}, fmt.Errorf("%w: %q for %s", ErrUnknownSeatClass, classKey, d.Name)
}

// Accommodations returns the recommended accommodations of a destination.
func (c *Catalog) Accommodations(destKey string) ([]string, error) {
	d, err := c.Destination(destKey)
	if err != nil {
		return nil, err
	}
	return d.Accommodations, nil
}

// Tips returns the travel tips.
func (c *Catalog) Tips() []string { return append([]string(nil), c.tips...) }

func clone(d model.Destination) model.Destination {
	d.SeatClasses = append([]model.SeatClass(nil), d.SeatClasses...)
	d.Accommodations = append([]string(nil), d.Accommodations...)
	return d
}
