package weatherdomain

import (
	"errors"
	"fmt"
	"strings"
)

// Climate shapes a region's weather.
type Climate string

const (
	Coastal  Climate = "coastal"
	Inland   Climate = "inland"
	Highland Climate = "highland"
	Island   Climate = "island"
)

var (
	ErrUnknownClimate = errors.New("unknown climate")
	ErrUnknownRegion  = errors.New("unknown region")
)

// ParseClimate validates a climate name.
func ParseClimate(s string) (Climate, error) {
	switch c := Climate(strings.ToLower(strings.TrimSpace(s))); c {
	case Coastal, Inland, Highland, Island:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownClimate, s)
}

// Region is a place with its own weather.
type Region struct {
	Name    string
	Climate Climate
}

// DefaultRegions are Malta's four simulated regions.
var DefaultRegions = []Region{
	{Name: "Valletta", Climate: Coastal},
	{Name: "Mdina", Climate: Inland},
	{Name: "Dingli", Climate: Highland},
	{Name: "Gozo", Climate: Island},
}

// FindRegion looks a region up by name, ignoring case.
func FindRegion(regions []Region, name string) (Region, error) {
	for _, r := range regions {
		if strings.EqualFold(r.Name, strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
}
